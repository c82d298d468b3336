package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/llmtui/internal/errors"
	"github.com/diogo/llmtui/internal/models"
)

// Conversations runs `<tool> logs list --json` and rebuilds the conversation
// history it reports.
func (r *Runner) Conversations(ctx context.Context) ([]models.Conversation, error) {
	out, err := r.output(ctx, "logs", "list", "--json")
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return ParseLogs(out)
}

// ParseLogs converts the JSON log array into conversations.
//
// The tool lists entries newest first. Entries are walked oldest first and
// grouped by conversation_id in order of first appearance; each entry adds a
// user message (prompt) followed by an assistant message (response).
func ParseLogs(data string) ([]models.Conversation, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	if !gjson.Valid(data) {
		return nil, apierrors.NewParseError("logs output is not valid JSON", "logs list")
	}

	parsed := gjson.Parse(data)
	if !parsed.IsArray() {
		return nil, apierrors.NewParseError("logs output is not an array", "logs list")
	}

	entries := parsed.Array()
	var convs []models.Conversation
	index := make(map[string]int)

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if !entry.IsObject() {
			continue
		}

		id := entry.Get("conversation_id").String()
		if id == "" {
			id = entry.Get("id").String()
		}
		name := entry.Get("conversation_name").String()
		msgs := []models.Message{
			models.UserMessage(entry.Get("prompt").String()),
			models.AssistantMessage(entry.Get("response").String()),
		}

		if pos, ok := index[id]; ok {
			convs[pos].Messages = append(convs[pos].Messages, msgs...)
			if convs[pos].Name == "" {
				convs[pos].Name = name
			}
			continue
		}

		index[id] = len(convs)
		convs = append(convs, models.Conversation{
			ID:       id,
			Name:     name,
			Messages: msgs,
		})
	}

	return convs, nil
}
