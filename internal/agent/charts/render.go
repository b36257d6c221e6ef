package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

const (
	chartWidth  = 900
	chartHeight = 512
)

func encodePNG(render func(w *bytes.Buffer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func barChart(title string, values []chart.Value) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("no data points for %q", title)
	}
	bc := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 48,
		Bars:     values,
	}
	return encodePNG(func(w *bytes.Buffer) error { return bc.Render(chart.PNG, w) })
}

// MaterialComparison charts tensile strength across materials, optionally
// filtered by keywords in subject ("titanium vs stainless steel", "all").
func MaterialComparison(materials []refdata.Material, subject string) (string, string, error) {
	filtered := filterMaterials(materials, subject)
	values := make([]chart.Value, 0, len(filtered))
	for _, m := range filtered {
		short, _, _ := strings.Cut(m.Name, " ")
		values = append(values, chart.Value{Value: m.Properties.TensileStrengthMPa, Label: short})
	}
	img, err := barChart("Material Tensile Strength (MPa)", values)
	if err != nil {
		return "", "", err
	}
	summary := fmt.Sprintf("Generated material comparison chart for %d materials showing tensile strength; cost, hardness and machinability are in the lookup results.", len(filtered))
	return img, summary, nil
}

func filterMaterials(materials []refdata.Material, subject string) []refdata.Material {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" || subject == "all" {
		return materials
	}
	replacer := strings.NewReplacer(" vs ", ",", " and ", ",", "versus", ",")
	var keywords []string
	for _, kw := range strings.Split(replacer.Replace(subject), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	var filtered []refdata.Material
	for _, m := range materials {
		for _, kw := range keywords {
			if strings.Contains(strings.ToLower(m.Name), kw) || strings.Contains(strings.ToLower(m.Category), kw) {
				filtered = append(filtered, m)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return materials
	}
	return filtered
}

// WorkOrderPerformance charts OEE for all work orders that report metrics.
func WorkOrderPerformance(workOrders []refdata.WorkOrder) (string, string, error) {
	var values []chart.Value
	for _, wo := range workOrders {
		if wo.PerformanceMetrics.OEEPct == nil {
			continue
		}
		values = append(values, chart.Value{Value: *wo.PerformanceMetrics.OEEPct, Label: wo.WorkOrderID})
	}
	img, err := barChart("Work Order OEE (%)", values)
	if err != nil {
		return "", "", err
	}
	summary := fmt.Sprintf("Generated work order performance chart showing OEE for %d active work orders.", len(values))
	return img, summary, nil
}

// EquipmentUtilization charts current utilization per machine.
func EquipmentUtilization(equipment []refdata.Equipment) (string, string, error) {
	values := make([]chart.Value, 0, len(equipment))
	for _, e := range equipment {
		values = append(values, chart.Value{Value: e.UtilizationPct, Label: e.MachineID})
	}
	img, err := barChart("Equipment Utilization (%)", values)
	if err != nil {
		return "", "", err
	}
	summary := fmt.Sprintf("Generated equipment utilization chart for %d machines.", len(values))
	return img, summary, nil
}

// EquipmentOEETrend charts the daily OEE history, for the machine matching
// subject or for all machines when no single machine matches.
func EquipmentOEETrend(equipment []refdata.Equipment, subject string) (string, string, error) {
	subject = strings.TrimSpace(subject)
	var matched []refdata.Equipment
	if subject != "" && !strings.EqualFold(subject, "all") {
		for _, e := range equipment {
			if strings.Contains(strings.ToUpper(e.MachineID), strings.ToUpper(subject)) ||
				strings.Contains(strings.ToLower(e.Name), strings.ToLower(subject)) {
				matched = append(matched, e)
				break
			}
		}
	}
	if len(matched) == 0 {
		matched = equipment
	}

	var series []chart.Series
	for _, e := range matched {
		xs := make([]float64, len(e.PerformanceHistory.DailyOEE))
		for i := range xs {
			xs[i] = float64(i + 1)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    e.MachineID,
			XValues: xs,
			YValues: e.PerformanceHistory.DailyOEE,
		})
	}
	if len(series) == 0 {
		return "", "", fmt.Errorf("no OEE history available")
	}

	graph := chart.Chart{
		Title:  "Daily OEE Trend (%)",
		Width:  chartWidth,
		Height: chartHeight,
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	img, err := encodePNG(func(w *bytes.Buffer) error { return graph.Render(chart.PNG, w) })
	if err != nil {
		return "", "", err
	}
	summary := fmt.Sprintf("Generated OEE trend chart for %d machine(s).", len(matched))
	return img, summary, nil
}

// DefectAnalysis charts defects found per active work order.
func DefectAnalysis(workOrders []refdata.WorkOrder) (string, string, error) {
	var values []chart.Value
	for _, wo := range workOrders {
		if wo.PerformanceMetrics.OEEPct == nil {
			continue
		}
		values = append(values, chart.Value{Value: float64(wo.DefectsFound), Label: wo.WorkOrderID})
	}
	img, err := barChart("Defects per Work Order", values)
	if err != nil {
		return "", "", err
	}
	summary := fmt.Sprintf("Generated defect analysis chart for %d work orders.", len(values))
	return img, summary, nil
}
