// Package core provides the shared types and interfaces for the bridge.
package core

import "context"

// Message represents a single message in the chat. Role is passed through
// as-is; the bridge does not restrict it to a closed set.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the incoming chat completion request after
// normalization. Both the JSON and the multipart submission shapes converge
// on this type.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

// ChatResponse represents the OpenAI-compatible chat completion response.
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChunkChoice represents a single choice inside a streaming chunk.
// FinishReason is a pointer so the content chunk serializes it as null,
// matching the OpenAI wire format.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta carries the incremental payload of a streaming chunk.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChatChunk represents one chat.completion.chunk streaming event.
type ChatChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// Model represents a single model in the models list.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// ModelsResponse represents the response from the /v1/models endpoint.
type ModelsResponse struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Generator is the outbound side of the bridge: it resolves a public model
// name to a backend route and produces a single buffered reply.
type Generator interface {
	// Supports reports whether the model maps to a backend route.
	Supports(model string) bool
	// Models returns the public model names in stable order.
	Models() []string
	// Generate sends the flattened prompt and optional file references to
	// the backend and returns the reply text.
	Generate(ctx context.Context, model, prompt string, files []FileReference) (string, error)
}
