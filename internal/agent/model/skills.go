package model

// SkillInfo is the read-only catalog entry exposed to clients.
type SkillInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
