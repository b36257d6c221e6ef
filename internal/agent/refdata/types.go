package refdata

// ================ Support deployment ================

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	OrderID        string      `json:"order_id"`
	CustomerName   string      `json:"customer_name"`
	CustomerEmail  string      `json:"customer_email"`
	Status         string      `json:"status"`
	Items          []OrderItem `json:"items"`
	Total          float64     `json:"total"`
	OrderDate      string      `json:"order_date"`
	DeliveryDate   string      `json:"delivery_date"`
	TrackingNumber string      `json:"tracking_number"`
}

type RefundPolicy struct {
	StandardReturnWindowDays int    `json:"standard_return_window_days"`
	RefundProcessingDays     string `json:"refund_processing_days"`
}

type ManufacturingThresholds struct {
	OEETargetPct      float64 `json:"oee_target_pct"`
	ScrapRateMaxPct   float64 `json:"scrap_rate_max_pct"`
	QualityTargetPct  float64 `json:"quality_target_pct"`
	UtilizationMinPct float64 `json:"utilization_min_pct"`
}

type Policies struct {
	RefundPolicy  RefundPolicy            `json:"refund_policy"`
	Manufacturing ManufacturingThresholds `json:"manufacturing_thresholds"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// ================ Manufacturing deployment ================

type PerformanceMetrics struct {
	OEEPct             *float64 `json:"oee_pct"`
	ScrapRatePct       float64  `json:"scrap_rate_pct"`
	CycleTimeMin       float64  `json:"cycle_time_min"`
	TargetCycleTimeMin float64  `json:"target_cycle_time_min"`
	QualityPct         float64  `json:"quality_pct"`
}

type WorkOrder struct {
	WorkOrderID        string             `json:"work_order_id"`
	ProductName        string             `json:"product_name"`
	Status             string             `json:"status"`
	MachineID          string             `json:"machine_id"`
	Quantity           int                `json:"quantity"`
	CompletedQuantity  int                `json:"completed_quantity"`
	DefectsFound       int                `json:"defects_found"`
	DueDate            string             `json:"due_date"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
}

type PerformanceHistory struct {
	Labels              []string  `json:"labels"`
	DailyOEE            []float64 `json:"daily_oee"`
	WeeklyDowntimeHours []float64 `json:"weekly_downtime_hours"`
}

type Equipment struct {
	MachineID          string             `json:"machine_id"`
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Status             string             `json:"status"`
	UtilizationPct     float64            `json:"utilization_pct"`
	Location           string             `json:"location"`
	NextMaintenance    string             `json:"next_maintenance"`
	PerformanceHistory PerformanceHistory `json:"performance_history"`
}

type MaterialProperties struct {
	TensileStrengthMPa  float64  `json:"tensile_strength_mpa"`
	HardnessHRC         *float64 `json:"hardness_hrc"`
	CostPerKgUSD        float64  `json:"cost_per_kg_usd"`
	DensityGCm3         float64  `json:"density_g_cm3"`
	MachinabilityRating float64  `json:"machinability_rating"`
}

type Material struct {
	MaterialID string             `json:"material_id"`
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	StockKg    float64            `json:"stock_kg"`
	ReorderKg  float64            `json:"reorder_kg"`
	Supplier   string             `json:"supplier"`
	Properties MaterialProperties `json:"properties"`
}

type KBEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}
