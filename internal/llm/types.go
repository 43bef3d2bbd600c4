package llm

// Message is a single turn of a chat-completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token consumption for a single completion,
// following the OpenAI usage schema.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the extracted result of one provider call.
type Completion struct {
	Content string
	Model   string
	Usage   Usage
}

// chatRequest is the outbound chat-completions payload.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// chatResponse is the provider's response envelope.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage     `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

// apiError is the error envelope some providers return with a 200 status.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// LastN returns the trailing n messages of a conversation. The full history
// is never forwarded upstream; only the most recent turns are.
func LastN(messages []Message, n int) []Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
