package llmApi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	// Any JSON value; absent or null means "user". Non-strings are coerced
	// like Content and then fail role validation.
	Role any `json:"role"`
	// Any JSON value; coerced to a string before it reaches the model.
	Content any `json:"content"`
}

// RoleOrDefault returns the message role, defaulting to "user" when absent.
func (m ChatMessage) RoleOrDefault() string {
	if m.Role == nil {
		return RoleUser
	}
	return toString(m.Role)
}

// Text returns the content as a string; null becomes "".
func (m ChatMessage) Text() string {
	return toString(m.Content)
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

type GenerateTextRequest struct {
	Prompt string `json:"prompt"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type ResultResponse struct {
	Result any `json:"result"`
}

type JsonErr struct {
	Error string `json:"error"`
}
