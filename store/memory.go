package store

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/chatmodel"
	"github.com/effective-security/agentcall/pkg/llms"
)

type chatState struct {
	info ChatInfo
	msgs []llms.Message
}

type inMemory struct {
	mu      sync.RWMutex
	storage map[string]*chatState
}

func NewMemoryStore() MessageStore {
	return &inMemory{}
}

func chatIDFromContext(ctx context.Context) (string, error) {
	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return "", errors.WithStack(chatmodel.ErrInvalidChatContext)
	}
	return chatCtx.GetChatID(), nil
}

// get returns the state for the chat ID, creating it on first use.
// The caller must hold the write lock.
func (m *inMemory) get(chatID string) *chatState {
	if m.storage == nil {
		m.storage = make(map[string]*chatState)
	}
	cs := m.storage[chatID]
	if cs == nil {
		now := time.Now()
		cs = &chatState{
			info: ChatInfo{
				ChatID:    chatID,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		m.storage[chatID] = cs
	}
	return cs
}

func (m *inMemory) Messages(ctx context.Context) []llms.Message {
	chatID, err := chatIDFromContext(ctx)
	if err != nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cs := m.storage[chatID]; cs != nil {
		return cs.msgs
	}
	return nil
}

func (m *inMemory) Add(ctx context.Context, msgs ...llms.Message) error {
	chatID, err := chatIDFromContext(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cs := m.get(chatID)
	cs.msgs = append(cs.msgs, msgs...)
	cs.info.UpdatedAt = time.Now()
	return nil
}

func (m *inMemory) Reset(ctx context.Context) error {
	chatID, err := chatIDFromContext(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, chatID)
	}
	return nil
}

func (m *inMemory) ListChats(ctx context.Context) ([]string, error) {
	if _, err := chatIDFromContext(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]string, 0, len(m.storage))
	for id := range m.storage {
		res = append(res, id)
	}
	return res, nil
}

func (m *inMemory) GetChatInfo(ctx context.Context, chatID string) (*ChatInfo, error) {
	ctxChatID, err := chatIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if chatID == "" {
		chatID = ctxChatID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cs := m.storage[chatID]
	if cs == nil {
		return nil, errors.Newf("chat not found: %s", chatID)
	}
	info := cs.info
	return &info, nil
}

func (m *inMemory) UpdateChat(ctx context.Context, title string, meta map[string]any) (*ChatInfo, error) {
	chatID, err := chatIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cs := m.get(chatID)
	cs.info.Title = title
	cs.info.Meta = meta
	cs.info.UpdatedAt = time.Now()
	info := cs.info
	return &info, nil
}
