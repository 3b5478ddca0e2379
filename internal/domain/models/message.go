package models

// Message is one role-tagged entry in the sequence sent to the language-model
// runtime. Roles are "system", "user", or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelResponse normalizes the language-model collaborator's output at the
// adapter boundary so downstream code never branches on response shape.
type ModelResponse struct {
	Text string
}
