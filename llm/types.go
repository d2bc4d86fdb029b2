package llm

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

// CompletionRequest is the input for free-form generation.
type CompletionRequest struct {
	// Model overrides the provider's default model.
	Model        string    `json:"model,omitempty"`
	Messages     []Message `json:"messages"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	// Temperature is used when non-nil; nil keeps the provider default.
	Temperature *float32 `json:"temperature,omitempty"`
	// MaxTokens limits the response length. 0 means provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// StructuredRequest asks for a single JSON object matching Schema.
type StructuredRequest struct {
	Model        string   `json:"model,omitempty"`
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Schema       *Schema  `json:"schema"`
	Temperature  *float32 `json:"temperature,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
}

// CompletionResponse is the output of a generation call.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Schema is the subset of JSON Schema the generation backends accept.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// Schema type names.
const (
	TypeObject  = "object"
	TypeString  = "string"
	TypeArray   = "array"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Float32 returns a pointer to v for optional sampling fields.
func Float32(v float32) *float32 { return &v }
