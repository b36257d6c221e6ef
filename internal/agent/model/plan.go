package model

// PlanStep is one advisory entry of the planner's preview. It is never
// validated against the registry and never gates execution.
type PlanStep struct {
	Skill  string `json:"skill"`
	Reason string `json:"reason"`
}
