package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

type WorkOrderLookupInput struct {
	Query string `json:"query"`
}

type WorkOrderLookupOutput struct {
	Found      bool                `json:"found"`
	WorkOrder  *refdata.WorkOrder  `json:"work_order,omitempty"`
	WorkOrders []refdata.WorkOrder `json:"work_orders,omitempty"`
	Count      int                 `json:"count,omitempty"`
	Summary    string              `json:"summary"`
}

func newWorkOrderLookupSkill(data *refdata.Store) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "work_order_lookup",
			Desc: "Look up work order information by work order ID, product name, or status. Use this tool when the operator asks about production status, schedules, quantities, or work order performance. The query can be a work order ID (e.g., 'WO-2401'), a product name, or a status like 'in_progress'.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Work order ID (format: WO-XXXX), product name, or status to search for.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *WorkOrderLookupInput) (*WorkOrderLookupOutput, error) {
			workOrders, err := data.WorkOrders()
			if err != nil {
				return nil, err
			}
			query := strings.ToLower(strings.TrimSpace(in.Query))

			for i := range workOrders {
				wo := workOrders[i]
				if strings.ToLower(wo.WorkOrderID) != query {
					continue
				}
				summary := fmt.Sprintf("Work order %s (%s): status '%s' on %s, %d/%d units complete, %d defects found, due %s.",
					wo.WorkOrderID, wo.ProductName, wo.Status, wo.MachineID, wo.CompletedQuantity, wo.Quantity, wo.DefectsFound, wo.DueDate)
				if wo.PerformanceMetrics.OEEPct != nil {
					summary += fmt.Sprintf(" OEE %.1f%%, scrap rate %.1f%%.", *wo.PerformanceMetrics.OEEPct, wo.PerformanceMetrics.ScrapRatePct)
				}
				return &WorkOrderLookupOutput{Found: true, WorkOrder: &wo, Summary: summary}, nil
			}

			var matches []refdata.WorkOrder
			for _, wo := range workOrders {
				if strings.Contains(strings.ToLower(wo.ProductName), query) ||
					strings.EqualFold(wo.Status, in.Query) {
					matches = append(matches, wo)
				}
			}
			if len(matches) > 0 {
				return &WorkOrderLookupOutput{
					Found:      true,
					WorkOrders: matches,
					Count:      len(matches),
					Summary:    fmt.Sprintf("Found %d work order(s) matching '%s'.", len(matches), in.Query),
				}, nil
			}

			return &WorkOrderLookupOutput{
				Found:   false,
				Summary: fmt.Sprintf("No work orders found matching '%s'. Please verify the work order ID (format: WO-XXXX), product name, or status.", in.Query),
			}, nil
		},
	)

	return &Skill{
		Name:        "work_order_lookup",
		DisplayName: "Work Order Lookup",
		Description: "Search work orders by ID, product, or status",
		Icon:        "🏭",
		Tool:        t,
	}
}
