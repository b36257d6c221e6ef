package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

type OrderLookupInput struct {
	Query string `json:"query"`
}

type OrderSummary struct {
	OrderID   string   `json:"order_id"`
	Status    string   `json:"status"`
	Total     float64  `json:"total"`
	OrderDate string   `json:"order_date"`
	Items     []string `json:"items"`
}

type OrderLookupOutput struct {
	Found   bool           `json:"found"`
	Order   *refdata.Order `json:"order,omitempty"`
	Orders  []OrderSummary `json:"orders,omitempty"`
	Count   int            `json:"count,omitempty"`
	Summary string         `json:"summary"`
}

func newOrderLookupSkill(data *refdata.Store) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "order_lookup",
			Desc: "Look up order information by order ID or customer name. Use this tool when the customer asks about their order status, tracking information, delivery date, or order details. The query can be an order ID (e.g., 'ORD-1001') or a customer name (e.g., 'Alice Johnson').",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Order ID (format: ORD-XXXX) or customer name to search for.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *OrderLookupInput) (*OrderLookupOutput, error) {
			orders, err := data.Orders()
			if err != nil {
				return nil, err
			}
			query := strings.ToLower(strings.TrimSpace(in.Query))

			for i := range orders {
				o := orders[i]
				if strings.ToLower(o.OrderID) != query {
					continue
				}
				names := make([]string, 0, len(o.Items))
				for _, it := range o.Items {
					names = append(names, it.Name)
				}
				summary := fmt.Sprintf("Order %s for %s: Status is '%s'. Items: %s. Total: $%.2f. Ordered on %s.",
					o.OrderID, o.CustomerName, o.Status, strings.Join(names, ", "), o.Total, o.OrderDate)
				if o.DeliveryDate != "" {
					summary += fmt.Sprintf(" Delivered on %s.", o.DeliveryDate)
				}
				if o.TrackingNumber != "" {
					summary += fmt.Sprintf(" Tracking: %s.", o.TrackingNumber)
				}
				return &OrderLookupOutput{Found: true, Order: &o, Summary: summary}, nil
			}

			var matches []OrderSummary
			for _, o := range orders {
				if !strings.Contains(strings.ToLower(o.CustomerName), query) {
					continue
				}
				names := make([]string, 0, len(o.Items))
				for _, it := range o.Items {
					names = append(names, it.Name)
				}
				matches = append(matches, OrderSummary{
					OrderID:   o.OrderID,
					Status:    o.Status,
					Total:     o.Total,
					OrderDate: o.OrderDate,
					Items:     names,
				})
			}
			if len(matches) > 0 {
				return &OrderLookupOutput{
					Found:   true,
					Orders:  matches,
					Count:   len(matches),
					Summary: fmt.Sprintf("Found %d order(s) for '%s'.", len(matches), in.Query),
				}, nil
			}

			return &OrderLookupOutput{
				Found:   false,
				Summary: fmt.Sprintf("No orders found matching '%s'. Please verify the order ID (format: ORD-XXXX) or customer name.", in.Query),
			}, nil
		},
	)

	return &Skill{
		Name:        "order_lookup",
		DisplayName: "Order Lookup",
		Description: "Search for order details by order ID or customer name",
		Icon:        "📦",
		Tool:        t,
	}
}
