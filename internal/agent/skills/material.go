package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

type MaterialLookupInput struct {
	Query string `json:"query"`
}

type MaterialLookupOutput struct {
	Found     bool               `json:"found"`
	Material  *refdata.Material  `json:"material,omitempty"`
	Materials []refdata.Material `json:"materials,omitempty"`
	Count     int                `json:"count,omitempty"`
	Summary   string             `json:"summary"`
}

func newMaterialLookupSkill(data *refdata.Store) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "material_lookup",
			Desc: "Look up material stock levels, suppliers, and mechanical properties (tensile strength, hardness, cost, density, machinability). Use this tool when the operator asks about raw material availability or needs to compare material properties. The query can be a material ID (e.g., 'MAT-001'), a material name, or a category such as 'aluminum'.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Material ID, name, or category to search for.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *MaterialLookupInput) (*MaterialLookupOutput, error) {
			materials, err := data.Materials()
			if err != nil {
				return nil, err
			}
			query := strings.ToLower(strings.TrimSpace(in.Query))

			for i := range materials {
				m := materials[i]
				if strings.ToLower(m.MaterialID) == query {
					return &MaterialLookupOutput{Found: true, Material: &m, Summary: materialSummary(m)}, nil
				}
			}

			var matches []refdata.Material
			for _, m := range materials {
				if strings.Contains(strings.ToLower(m.Name), query) || strings.Contains(strings.ToLower(m.Category), query) {
					matches = append(matches, m)
				}
			}
			switch len(matches) {
			case 0:
				return &MaterialLookupOutput{
					Found:   false,
					Summary: fmt.Sprintf("No materials found matching '%s'. Please verify the material ID (format: MAT-XXX), name, or category.", in.Query),
				}, nil
			case 1:
				return &MaterialLookupOutput{Found: true, Material: &matches[0], Summary: materialSummary(matches[0])}, nil
			default:
				return &MaterialLookupOutput{
					Found:     true,
					Materials: matches,
					Count:     len(matches),
					Summary:   fmt.Sprintf("Found %d materials matching '%s'.", len(matches), in.Query),
				}, nil
			}
		},
	)

	return &Skill{
		Name:        "material_lookup",
		DisplayName: "Material Lookup",
		Description: "Check material stock, suppliers, and properties",
		Icon:        "🧱",
		Tool:        t,
	}
}

func materialSummary(m refdata.Material) string {
	s := fmt.Sprintf("%s (%s): %.0f kg in stock (reorder at %.0f kg), supplied by %s. Tensile strength %.0f MPa, $%.2f/kg.",
		m.Name, m.MaterialID, m.StockKg, m.ReorderKg, m.Supplier, m.Properties.TensileStrengthMPa, m.Properties.CostPerKgUSD)
	if m.StockKg <= m.ReorderKg {
		s += " Stock is at or below the reorder point."
	}
	return s
}
