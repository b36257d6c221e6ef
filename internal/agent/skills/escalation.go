package skills

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

type EscalateInput struct {
	Reason     string `json:"reason"`
	Priority   string `json:"priority,omitempty"`
	Department string `json:"department,omitempty"`
}

type EscalateOutput struct {
	Escalated             bool   `json:"escalated"`
	TicketNumber          string `json:"ticket_number"`
	Department            string `json:"department,omitempty"`
	Priority              string `json:"priority"`
	Reason                string `json:"reason"`
	EstimatedResponseTime string `json:"estimated_response_time"`
	CreatedAt             string `json:"created_at"`
	Summary               string `json:"summary"`
}

var responseTimes = map[string]string{
	"low":      "2-4 hours",
	"medium":   "30-60 minutes",
	"high":     "15-30 minutes",
	"critical": "Immediate (5-10 minutes)",
}

// newTicketNumber mints a fresh ticket id; every call opens a new ticket.
func newTicketNumber(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

func estimatedResponse(priority string) string {
	if t, ok := responseTimes[strings.ToLower(priority)]; ok {
		return t
	}
	return responseTimes["medium"]
}

func newEscalateToHumanSkill(now func() time.Time) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "escalate_to_human",
			Desc: "Escalate a complex issue to a human support agent. Use this tool when the issue is too complex to resolve, the customer is very unhappy, or they explicitly request to speak with a person. Provide a clear reason and a priority level (low/medium/high/critical).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"reason": {
					Type:     "string",
					Desc:     "Why the issue needs a human agent.",
					Required: true,
				},
				"priority": {
					Type: "string",
					Desc: "Priority level: low, medium, high, or critical. Defaults to medium.",
				},
			}),
		},
		func(ctx context.Context, in *EscalateInput) (*EscalateOutput, error) {
			priority := in.Priority
			if priority == "" {
				priority = "medium"
			}
			ticket := newTicketNumber("ESC")
			eta := estimatedResponse(priority)
			return &EscalateOutput{
				Escalated:             true,
				TicketNumber:          ticket,
				Priority:              priority,
				Reason:                in.Reason,
				EstimatedResponseTime: eta,
				CreatedAt:             now().Format(time.RFC3339),
				Summary: fmt.Sprintf("Escalation ticket %s created. Priority: %s. Estimated response: %s. Reason: %s. A human agent will reach out shortly.",
					ticket, strings.ToUpper(priority), eta, in.Reason),
			}, nil
		},
	)

	return &Skill{
		Name:        "escalate_to_human",
		DisplayName: "Escalation",
		Description: "Escalate complex issues to a human support agent",
		Icon:        "🙋",
		Tool:        t,
	}
}

func newEscalateToEngineerSkill(now func() time.Time) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "escalate_to_engineer",
			Desc: "Escalate an issue to a specialist engineer or supervisor. Use this tool when the issue requires engineering expertise (tooling, process, design), a critical defect or safety concern is identified, machine downtime exceeds normal resolution time, or the operator requests specialized support. Provide a clear reason, priority level (low/medium/high/critical), and target department (Manufacturing Engineering, Quality Engineering, Maintenance, Production Management).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"reason": {
					Type:     "string",
					Desc:     "Why the issue needs an engineer.",
					Required: true,
				},
				"priority": {
					Type: "string",
					Desc: "Priority level: low, medium, high, or critical. Defaults to medium.",
				},
				"department": {
					Type: "string",
					Desc: "Target department. Defaults to Manufacturing Engineering.",
				},
			}),
		},
		func(ctx context.Context, in *EscalateInput) (*EscalateOutput, error) {
			priority := in.Priority
			if priority == "" {
				priority = "medium"
			}
			department := in.Department
			if department == "" {
				department = "Manufacturing Engineering"
			}
			ticket := newTicketNumber("ESC")
			eta := estimatedResponse(priority)
			return &EscalateOutput{
				Escalated:             true,
				TicketNumber:          ticket,
				Department:            department,
				Priority:              priority,
				Reason:                in.Reason,
				EstimatedResponseTime: eta,
				CreatedAt:             now().Format(time.RFC3339),
				Summary: fmt.Sprintf("Escalation ticket %s created. Department: %s. Priority: %s. Estimated response: %s. Reason: %s. An engineer will be dispatched to assist.",
					ticket, department, strings.ToUpper(priority), eta, in.Reason),
			}, nil
		},
	)

	return &Skill{
		Name:        "escalate_to_engineer",
		DisplayName: "Engineering Escalation",
		Description: "Escalate complex issues to a specialist engineer",
		Icon:        "🛠️",
		Tool:        t,
	}
}
