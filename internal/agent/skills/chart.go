package skills

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/charts"
	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

// ChartKeyField is the result field the event projector keys on to locate a
// pending chart artifact.
const ChartKeyField = "chart_id"

type GenerateChartInput struct {
	ChartType string `json:"chart_type"`
	Subject   string `json:"subject,omitempty"`
}

type GenerateChartOutput struct {
	ChartGenerated bool   `json:"chart_generated,omitempty"`
	ChartID        string `json:"chart_id,omitempty"`
	ChartType      string `json:"chart_type,omitempty"`
	Summary        string `json:"summary,omitempty"`
	Note           string `json:"note,omitempty"`
	Error          string `json:"error,omitempty"`
}

const chartTypes = "material_comparison, work_order_performance, equipment_utilization, equipment_oee_trend, defect_analysis"

func newGenerateChartSkill(data *refdata.Store, store *charts.Store) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "generate_chart",
			Desc: "Generate a performance chart or comparison visualization. Use this tool when the user asks for charts, graphs, comparisons, or visual data. chart_type options: 'material_comparison' (material properties), 'work_order_performance' (OEE across work orders), 'equipment_utilization' (machine utilization), 'equipment_oee_trend' (daily OEE for a machine), 'defect_analysis' (defect rates across work orders). subject: additional context (e.g., 'titanium vs stainless steel', 'CNC-001', 'all').",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"chart_type": {
					Type:     "string",
					Desc:     "One of: " + chartTypes,
					Required: true,
				},
				"subject": {
					Type: "string",
					Desc: "Additional context, e.g. a machine ID, material names, or 'all'.",
				},
			}),
		},
		func(ctx context.Context, in *GenerateChartInput) (*GenerateChartOutput, error) {
			var (
				img     string
				summary string
				err     error
			)
			switch in.ChartType {
			case "material_comparison":
				var materials []refdata.Material
				if materials, err = data.Materials(); err == nil {
					img, summary, err = charts.MaterialComparison(materials, in.Subject)
				}
			case "work_order_performance":
				var workOrders []refdata.WorkOrder
				if workOrders, err = data.WorkOrders(); err == nil {
					img, summary, err = charts.WorkOrderPerformance(workOrders)
				}
			case "equipment_utilization":
				var equipment []refdata.Equipment
				if equipment, err = data.Equipment(); err == nil {
					img, summary, err = charts.EquipmentUtilization(equipment)
				}
			case "equipment_oee_trend":
				var equipment []refdata.Equipment
				if equipment, err = data.Equipment(); err == nil {
					img, summary, err = charts.EquipmentOEETrend(equipment, in.Subject)
				}
			case "defect_analysis":
				var workOrders []refdata.WorkOrder
				if workOrders, err = data.WorkOrders(); err == nil {
					img, summary, err = charts.DefectAnalysis(workOrders)
				}
			default:
				// Domain-level negative, not an exception: the loop continues
				// and the model answers in text.
				return &GenerateChartOutput{
					Error: fmt.Sprintf("Unknown chart type: %s. Available: %s", in.ChartType, chartTypes),
				}, nil
			}
			if err != nil {
				return &GenerateChartOutput{
					Error: fmt.Sprintf("Chart generation failed: %v", err),
				}, nil
			}

			id := store.Put(charts.Artifact{ChartType: in.ChartType, ImageB64: img})
			return &GenerateChartOutput{
				ChartGenerated: true,
				ChartID:        id,
				ChartType:      in.ChartType,
				Summary:        summary,
				Note:           "The chart has been rendered and displayed to the user.",
			}, nil
		},
	)

	return &Skill{
		Name:        "generate_chart",
		DisplayName: "Chart Generator",
		Description: "Render performance and comparison charts",
		Icon:        "📊",
		Tool:        t,
	}
}
