package skills

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

type ProcessRefundInput struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type ProcessRefundOutput struct {
	Eligible          bool    `json:"eligible"`
	OrderID           string  `json:"order_id,omitempty"`
	Action            string  `json:"action,omitempty"`
	Reason            string  `json:"reason,omitempty"`
	Summary           string  `json:"summary,omitempty"`
	RefundAmount      float64 `json:"refund_amount,omitempty"`
	ReturnLabelSentTo string  `json:"return_label_sent_to,omitempty"`
}

func newProcessRefundSkill(data *refdata.Store, now func() time.Time) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "process_refund",
			Desc: "Process a refund request for a given order. Use this tool when a customer wants to return an item or get a refund. Checks refund eligibility based on store policies and order status. Provide the order ID (e.g., 'ORD-1001') and the reason for the refund.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     "string",
					Desc:     "Order ID to refund (format: ORD-XXXX).",
					Required: true,
				},
				"reason": {
					Type:     "string",
					Desc:     "The customer's reason for requesting the refund.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ProcessRefundInput) (*ProcessRefundOutput, error) {
			orders, err := data.Orders()
			if err != nil {
				return nil, err
			}
			policies, err := data.Policies()
			if err != nil {
				return nil, err
			}

			var order *refdata.Order
			for i := range orders {
				if strings.EqualFold(orders[i].OrderID, in.OrderID) {
					order = &orders[i]
					break
				}
			}
			if order == nil {
				return &ProcessRefundOutput{
					Eligible: false,
					Reason:   fmt.Sprintf("Order %s not found. Please verify the order ID.", in.OrderID),
				}, nil
			}

			switch order.Status {
			case "cancelled":
				return &ProcessRefundOutput{
					Eligible: false,
					OrderID:  in.OrderID,
					Reason:   "This order has already been cancelled. No refund is needed.",
				}, nil
			case "returned":
				return &ProcessRefundOutput{
					Eligible: false,
					OrderID:  in.OrderID,
					Reason:   "This order has already been returned and refunded.",
				}, nil
			case "processing":
				return &ProcessRefundOutput{
					Eligible: true,
					OrderID:  in.OrderID,
					Action:   "cancel_order",
					Summary: fmt.Sprintf("Order %s is still being processed. We can cancel it for a full refund of $%.2f. Refund will be processed within 5-7 business days.",
						in.OrderID, order.Total),
					RefundAmount: order.Total,
				}, nil
			case "shipped":
				return &ProcessRefundOutput{
					Eligible: true,
					OrderID:  in.OrderID,
					Action:   "intercept_and_refund",
					Summary: fmt.Sprintf("Order %s is currently in transit. We can attempt to intercept the shipment for a full refund of $%.2f. If interception fails, you can return it once delivered.",
						in.OrderID, order.Total),
					RefundAmount: order.Total,
				}, nil
			}

			if order.Status == "delivered" && order.DeliveryDate != "" {
				delivered, err := time.Parse("2006-01-02", order.DeliveryDate)
				if err != nil {
					return nil, fmt.Errorf("parse delivery date for %s: %w", order.OrderID, err)
				}
				daysSince := int(now().Sub(delivered).Hours() / 24)
				window := policies.RefundPolicy.StandardReturnWindowDays

				if daysSince > window {
					return &ProcessRefundOutput{
						Eligible: false,
						OrderID:  in.OrderID,
						Reason: fmt.Sprintf("The %d-day return window has expired. Item was delivered %d days ago on %s.",
							window, daysSince, order.DeliveryDate),
					}, nil
				}
				return &ProcessRefundOutput{
					Eligible: true,
					OrderID:  in.OrderID,
					Action:   "initiate_return",
					Summary: fmt.Sprintf("Order %s is eligible for a refund. Delivered %d days ago (within the %d-day window). Refund amount: $%.2f. Reason: %s. A return shipping label will be emailed to %s.",
						in.OrderID, daysSince, window, order.Total, in.Reason, order.CustomerEmail),
					RefundAmount:      order.Total,
					ReturnLabelSentTo: order.CustomerEmail,
				}, nil
			}

			return &ProcessRefundOutput{
				Eligible: false,
				OrderID:  in.OrderID,
				Reason:   fmt.Sprintf("Unable to process refund for order status: %s.", order.Status),
			}, nil
		},
	)

	return &Skill{
		Name:        "process_refund",
		DisplayName: "Refund Processing",
		Description: "Process refund requests based on store policies",
		Icon:        "💳",
		Tool:        t,
	}
}
