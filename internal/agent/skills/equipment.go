package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

type EquipmentStatusInput struct {
	Query string `json:"query"`
}

type EquipmentStatusOutput struct {
	Found    bool                `json:"found"`
	Machine  *refdata.Equipment  `json:"machine,omitempty"`
	Machines []refdata.Equipment `json:"machines,omitempty"`
	Count    int                 `json:"count,omitempty"`
	Summary  string              `json:"summary"`
}

func newEquipmentStatusSkill(data *refdata.Store) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "equipment_status",
			Desc: "Check the status, utilization, and maintenance schedule of production equipment. Use this tool when the operator asks about a machine's condition, downtime, or OEE. The query can be a machine ID (e.g., 'CNC-001'), a machine name, or 'all' for the full floor.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Machine ID, machine name, or 'all'.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *EquipmentStatusInput) (*EquipmentStatusOutput, error) {
			equipment, err := data.Equipment()
			if err != nil {
				return nil, err
			}
			query := strings.ToLower(strings.TrimSpace(in.Query))

			if query == "all" || query == "" {
				return &EquipmentStatusOutput{
					Found:    true,
					Machines: equipment,
					Count:    len(equipment),
					Summary:  fmt.Sprintf("Listing status for all %d machines on the floor.", len(equipment)),
				}, nil
			}

			for i := range equipment {
				e := equipment[i]
				if strings.ToLower(e.MachineID) == query || strings.Contains(strings.ToLower(e.Name), query) {
					return &EquipmentStatusOutput{
						Found:   true,
						Machine: &e,
						Summary: fmt.Sprintf("%s (%s) is '%s' at %.0f%% utilization in %s; next maintenance %s.",
							e.MachineID, e.Name, e.Status, e.UtilizationPct, e.Location, e.NextMaintenance),
					}, nil
				}
			}

			return &EquipmentStatusOutput{
				Found:   false,
				Summary: fmt.Sprintf("No machine found matching '%s'. Please verify the machine ID (e.g., CNC-001) or name.", in.Query),
			}, nil
		},
	)

	return &Skill{
		Name:        "equipment_status",
		DisplayName: "Equipment Status",
		Description: "Check machine status, utilization, and maintenance",
		Icon:        "⚙️",
		Tool:        t,
	}
}
