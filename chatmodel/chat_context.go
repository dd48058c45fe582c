package chatmodel

import (
	"context"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

var ErrInvalidChatContext = errors.New("context does not contain a chat context")

// ChatContext carries the identity of a conversation: a stable chat ID,
// a run ID that changes on every agent invocation, and optional
// application data and metadata.
type ChatContext interface {
	GetChatID() string
	SetChatID(chatID string)
	// RunID identifies a single agent run within the chat
	RunID() string
	// AppData returns immutable app data
	AppData() any
	// GetMetadata retrieves metadata by key
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key
	SetMetadata(key string, value any)
}

type chatContext struct {
	chatID   string
	runID    string
	metadata sync.Map
	appData  any
}

func (c *chatContext) GetChatID() string {
	return c.chatID
}

func (c *chatContext) SetChatID(chatID string) {
	c.chatID = chatID
}

func (c *chatContext) RunID() string {
	return c.runID
}

func (c *chatContext) AppData() any {
	return c.appData
}

func (c *chatContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *chatContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

func NewChatContext(chatID string, appData any) ChatContext {
	return &chatContext{
		chatID:   values.StringsCoalesce(chatID, NewChatID()),
		runID:    NewChatID(),
		appData:  appData,
		metadata: sync.Map{},
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithChatContext returns a new context with ChatContext value
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, keyContext, chatCtx)
}

// GetChatContext retrieves the ChatContext from the context
func GetChatContext(ctx context.Context) ChatContext {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v
	}
	return nil
}

// NewFromContext returns a fresh background context that carries over
// the ChatContext from the provided one, if present.
// Used when tool execution must outlive the caller's deadline.
func NewFromContext(ctx context.Context) context.Context {
	res := context.Background()
	if v := GetChatContext(ctx); v != nil {
		res = WithChatContext(res, v)
	}
	return res
}

// SetChatID updates the chat ID on the ChatContext stored in ctx.
func SetChatID(ctx context.Context, chatID string) (context.Context, error) {
	v := GetChatContext(ctx)
	if v == nil {
		return nil, errors.WithStack(ErrInvalidChatContext)
	}
	v.SetChatID(chatID)
	return ctx, nil
}

// GetChatID retrieves the chat ID from the provided context.
// If the context does not contain a ChatContext, it returns an empty string.
func GetChatID(ctx context.Context) string {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v.GetChatID()
	}
	return ""
}

// NewChatID generates a new chat ID using the flake ID generator.
func NewChatID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
