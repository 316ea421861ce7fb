// Package completion builds OpenAI-compatible completion objects and the
// synthetic event-stream frames derived from a single buffered reply.
package completion

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"aibridge/internal/core"
)

const (
	objectCompletion = "chat.completion"
	objectChunk      = "chat.completion.chunk"
	finishStop       = "stop"
)

// NewID generates a completion id of the form "chatcmpl-" plus a 12-char
// hex suffix.
func NewID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "chatcmpl-" + hex[:12]
}

// NewResponse builds the non-streaming completion object carrying the whole
// reply as a single assistant choice.
func NewResponse(id, model, reply string, created int64) *core.ChatResponse {
	return &core.ChatResponse{
		ID:      id,
		Object:  objectCompletion,
		Created: created,
		Model:   model,
		Choices: []core.Choice{
			{
				Index:        0,
				Message:      core.Message{Role: "assistant", Content: reply},
				FinishReason: finishStop,
			},
		},
	}
}

// StreamFrames renders the reply as a finite sequence of SSE frames: one
// content delta with the entire reply, one empty delta with finish reason
// "stop", and the [DONE] sentinel. All frames share the id and created
// values captured by the caller. The backend never streams, so this is a
// shape contract, not a latency optimization.
func StreamFrames(id, model, reply string, created int64) []string {
	stop := finishStop

	contentChunk := core.ChatChunk{
		ID:      id,
		Object:  objectChunk,
		Created: created,
		Model:   model,
		Choices: []core.ChunkChoice{
			{
				Index:        0,
				Delta:        core.Delta{Role: "assistant", Content: reply},
				FinishReason: nil,
			},
		},
	}

	finishChunk := core.ChatChunk{
		ID:      id,
		Object:  objectChunk,
		Created: created,
		Model:   model,
		Choices: []core.ChunkChoice{
			{
				Index:        0,
				Delta:        core.Delta{},
				FinishReason: &stop,
			},
		},
	}

	return []string{
		frame(contentChunk),
		frame(finishChunk),
		"data: [DONE]\n\n",
	}
}

func frame(chunk core.ChatChunk) string {
	// Marshaling a plain struct of strings and ints cannot fail.
	b, _ := json.Marshal(chunk)
	return "data: " + string(b) + "\n\n"
}
