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

type LogDefectInput struct {
	WorkOrderID string `json:"work_order_id"`
	DefectType  string `json:"defect_type"`
	Description string `json:"description"`
	Severity    string `json:"severity,omitempty"`
}

type LogDefectOutput struct {
	Logged      bool   `json:"logged"`
	NCRNumber   string `json:"ncr_number,omitempty"`
	WorkOrderID string `json:"work_order_id"`
	DefectType  string `json:"defect_type,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Summary     string `json:"summary"`
}

func newLogDefectSkill(data *refdata.Store, now func() time.Time) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "log_defect",
			Desc: "Log a quality defect against a work order and open a non-conformance report (NCR). Use this tool when the operator reports a defective part, dimensional deviation, surface flaw, or any quality issue. Provide the work order ID, a defect type (e.g., 'dimensional', 'surface_finish', 'material_flaw'), a description, and a severity (minor/major/critical).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"work_order_id": {
					Type:     "string",
					Desc:     "Work order the defect was found on (format: WO-XXXX).",
					Required: true,
				},
				"defect_type": {
					Type:     "string",
					Desc:     "Category of the defect, e.g. dimensional, surface_finish, material_flaw.",
					Required: true,
				},
				"description": {
					Type:     "string",
					Desc:     "What was observed, including measurements where known.",
					Required: true,
				},
				"severity": {
					Type: "string",
					Desc: "Severity: minor, major, or critical. Defaults to minor.",
				},
			}),
		},
		func(ctx context.Context, in *LogDefectInput) (*LogDefectOutput, error) {
			workOrders, err := data.WorkOrders()
			if err != nil {
				return nil, err
			}

			known := false
			for _, wo := range workOrders {
				if strings.EqualFold(wo.WorkOrderID, in.WorkOrderID) {
					known = true
					break
				}
			}
			if !known {
				return &LogDefectOutput{
					Logged:      false,
					WorkOrderID: in.WorkOrderID,
					Reason:      fmt.Sprintf("Work order %s not found. Please verify the work order ID before logging a defect.", in.WorkOrderID),
					Summary:     fmt.Sprintf("No NCR opened: work order %s is unknown.", in.WorkOrderID),
				}, nil
			}

			severity := strings.ToLower(in.Severity)
			switch severity {
			case "minor", "major", "critical":
			default:
				severity = "minor"
			}

			// Each call mints a fresh NCR; retries are not idempotent.
			ncr := newTicketNumber("NCR")
			return &LogDefectOutput{
				Logged:      true,
				NCRNumber:   ncr,
				WorkOrderID: in.WorkOrderID,
				DefectType:  in.DefectType,
				Severity:    severity,
				Description: in.Description,
				CreatedAt:   now().Format(time.RFC3339),
				Summary: fmt.Sprintf("NCR %s opened against %s for a %s %s defect. Quality Engineering has been notified.",
					ncr, in.WorkOrderID, severity, in.DefectType),
			}, nil
		},
	)

	return &Skill{
		Name:        "log_defect",
		DisplayName: "Defect Logging",
		Description: "Log quality defects and open NCR tickets",
		Icon:        "📋",
		Tool:        t,
	}
}
