package models

import "testing"

func TestMessageConstructors(t *testing.T) {
	u := UserMessage("hi")
	if u.Role != RoleUser || u.Content != "hi" {
		t.Errorf("UserMessage = %+v", u)
	}
	a := AssistantMessage("hello")
	if a.Role != RoleAssistant || a.Content != "hello" {
		t.Errorf("AssistantMessage = %+v", a)
	}
}

func TestConversationTitle(t *testing.T) {
	tests := []struct {
		conv Conversation
		want string
	}{
		{Conversation{ID: "42", Name: "Go questions"}, "Go questions"},
		{Conversation{ID: "42"}, "Conversation 42"},
	}
	for _, tt := range tests {
		if got := tt.conv.Title(); got != tt.want {
			t.Errorf("Title() = %q, want %q", got, tt.want)
		}
	}
}

func TestConversationClone(t *testing.T) {
	orig := Conversation{ID: "1", Messages: []Message{UserMessage("a")}}
	clone := orig.Clone()
	clone.Messages[0].Content = "changed"

	if orig.Messages[0].Content != "a" {
		t.Error("Clone should not share the message slice")
	}
}

func TestModelInfo(t *testing.T) {
	m := ModelInfo{Name: "gpt-4o", Aliases: []string{"4o", "gpt4o"}, Preferred: 1}

	if m.Alias() != "gpt4o" {
		t.Errorf("Alias() = %s, want gpt4o", m.Alias())
	}
	if m.Label() != "gpt-4o (4o, gpt4o)" {
		t.Errorf("Label() = %s", m.Label())
	}
	if !m.HasAlias("4o") || !m.HasAlias("gpt-4o") || m.HasAlias("3.5") {
		t.Error("HasAlias mismatch")
	}

	bare := ModelInfo{Name: "claude-3"}
	if bare.Alias() != "claude-3" {
		t.Errorf("Alias() without aliases = %s, want claude-3", bare.Alias())
	}
	if bare.Label() != "claude-3" {
		t.Errorf("Label() without aliases = %s", bare.Label())
	}
}
