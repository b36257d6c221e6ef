package model

// EventType identifies a client-facing stream event.
type EventType string

const (
	EventAgentThinking EventType = "agent_thinking"
	EventPlan          EventType = "plan"
	EventSkillStart    EventType = "skill_start"
	EventSkillResult   EventType = "skill_result"
	EventChart         EventType = "chart"
	EventMessage       EventType = "message"
	EventError         EventType = "error"
	EventDone          EventType = "done"
)

// Event is one entry of the client-facing stream. Data carries the
// JSON-serializable payload including an RFC3339 timestamp.
type Event struct {
	Type EventType
	Data map[string]any
}
