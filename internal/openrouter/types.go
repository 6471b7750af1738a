package openrouter

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completion is the parsed result of one chat completion call. Reasoning,
// Cost and ReasoningTokens are populated only for models and accounts that
// report them; absent values stay nil so the output layer can tell "zero"
// from "not reported".
type Completion struct {
	Text            string
	Reasoning       string
	Cost            *float64
	ReasoningTokens *int
	PromptTokens    int
	OutputTokens    int
	Model           string
	FinishReason    string
}
