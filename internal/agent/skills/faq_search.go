package skills

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

type KnowledgeSearchInput struct {
	Query string `json:"query"`
}

type KnowledgeResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

type KnowledgeSearchOutput struct {
	Found   bool              `json:"found"`
	Count   int               `json:"count,omitempty"`
	Results []KnowledgeResult `json:"results,omitempty"`
	Summary string            `json:"summary"`
}

const knowledgeTopResults = 3

// searchEntries scores entries by keyword overlap with the query and keeps
// the top matches, preserving a stable order among equal scores.
func searchEntries(query string, entries []KnowledgeResult) *KnowledgeSearchOutput {
	queryWords := wordSet(strings.ToLower(query))

	type scored struct {
		overlap int
		entry   KnowledgeResult
	}
	var hits []scored
	for _, e := range entries {
		text := strings.ToLower(e.Question + " " + e.Answer + " " + e.Category)
		overlap := 0
		words := wordSet(text)
		for w := range queryWords {
			if words[w] {
				overlap++
			}
		}
		if overlap > 0 {
			hits = append(hits, scored{overlap: overlap, entry: e})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].overlap > hits[j].overlap })
	if len(hits) > knowledgeTopResults {
		hits = hits[:knowledgeTopResults]
	}

	if len(hits) == 0 {
		return &KnowledgeSearchOutput{
			Found:   false,
			Summary: "No matching entries found for your question. Let me try to help you directly or escalate to a specialist.",
		}
	}

	results := make([]KnowledgeResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, h.entry)
	}
	return &KnowledgeSearchOutput{
		Found:   true,
		Count:   len(results),
		Results: results,
		Summary: fmt.Sprintf("Found %d relevant entries.", len(results)),
	}
}

func wordSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		out[w] = true
	}
	return out
}

func newFAQSearchSkill(data *refdata.Store) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "faq_search",
			Desc: "Search the FAQ knowledge base for answers to common customer questions. Use this tool when the customer asks general questions about policies, shipping, payments, account management, or product information. Provide a natural language query describing what the customer wants to know.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Natural language description of what the customer wants to know.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *KnowledgeSearchInput) (*KnowledgeSearchOutput, error) {
			faqs, err := data.FAQs()
			if err != nil {
				return nil, err
			}
			entries := make([]KnowledgeResult, 0, len(faqs))
			for _, f := range faqs {
				entries = append(entries, KnowledgeResult(f))
			}
			return searchEntries(in.Query, entries), nil
		},
	)

	return &Skill{
		Name:        "faq_search",
		DisplayName: "FAQ Search",
		Description: "Search the knowledge base for answers to common questions",
		Icon:        "📖",
		Tool:        t,
	}
}

func newKBSearchSkill(data *refdata.Store) *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "kb_search",
			Desc: "Search the manufacturing knowledge base for procedures, safety rules, machine setup guidance, and quality standards. Provide a natural language query describing what the operator wants to know.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Natural language description of the procedure or standard in question.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *KnowledgeSearchInput) (*KnowledgeSearchOutput, error) {
			kb, err := data.KnowledgeBase()
			if err != nil {
				return nil, err
			}
			entries := make([]KnowledgeResult, 0, len(kb))
			for _, e := range kb {
				entries = append(entries, KnowledgeResult(e))
			}
			return searchEntries(in.Query, entries), nil
		},
	)

	return &Skill{
		Name:        "kb_search",
		DisplayName: "Knowledge Base",
		Description: "Search procedures, safety rules and quality standards",
		Icon:        "📚",
		Tool:        t,
	}
}
