package order

import (
	"encoding/json"
	"time"

	"github.com/buildply/intake/internal/providers"
)

// maxCompletionTokens is deliberately generous so structured output is
// never silently truncated mid-object.
const maxCompletionTokens = 2000

// BuildRequest creates the chat request for extracting one order from
// free text. Temperature is left at the provider default.
func BuildRequest(text string, now time.Time) *providers.ChatRequest {
	return &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: SystemPrompt(now)},
			{Role: "user", Content: UserPrompt(text)},
		},
		ResponseFormat: buildResponseFormat(),
		MaxTokens:      maxCompletionTokens,
	}
}

func buildResponseFormat() *providers.ResponseFormat {
	jsonSchema, _ := json.Marshal(ExtractionSchema["json_schema"])
	return &providers.ResponseFormat{
		Type:       "json_schema",
		JSONSchema: jsonSchema,
	}
}
