package store

import (
	"context"
	"time"

	"github.com/effective-security/agentcall/pkg/llms"
)

// ChatInfo describes a stored conversation.
type ChatInfo struct {
	ChatID    string
	Title     string
	Meta      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MessageStore keeps per-conversation chat history.
// The conversation is identified by the chat ID carried
// in the context via chatmodel.WithChatContext.
type MessageStore interface {
	Messages(ctx context.Context) []llms.Message
	Add(ctx context.Context, msgs ...llms.Message) error
	Reset(ctx context.Context) error

	// ListChats returns the IDs of all stored conversations.
	ListChats(ctx context.Context) ([]string, error)
	// GetChatInfo returns info for the given chat ID,
	// or for the context's chat when chatID is empty.
	GetChatInfo(ctx context.Context, chatID string) (*ChatInfo, error)
	// UpdateChat sets the title and metadata of the context's chat.
	UpdateChat(ctx context.Context, title string, meta map[string]any) (*ChatInfo, error)
}
