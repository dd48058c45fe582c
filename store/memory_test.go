package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/agentcall/chatmodel"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MemoryStore(t *testing.T) {
	st := store.NewMemoryStore()

	chatID := "chat1"
	appData := map[string]string{"key": "value"}
	msg1 := llms.MessageFromTextParts(llms.RoleHuman, "Hello")
	msg2 := llms.MessageFromTextParts(llms.RoleAI, "Hi there!")

	// no chat context
	ctx := context.Background()
	assert.ErrorIs(t, st.Reset(ctx), chatmodel.ErrInvalidChatContext)
	assert.ErrorIs(t, st.Add(ctx, msg1), chatmodel.ErrInvalidChatContext)
	_, err := st.UpdateChat(ctx, "", nil)
	assert.ErrorIs(t, err, chatmodel.ErrInvalidChatContext)
	_, err = st.ListChats(ctx)
	assert.ErrorIs(t, err, chatmodel.ErrInvalidChatContext)
	_, err = st.GetChatInfo(ctx, "")
	assert.ErrorIs(t, err, chatmodel.ErrInvalidChatContext)
	assert.Empty(t, st.Messages(ctx))

	chatCtx := chatmodel.NewChatContext(chatID, appData)
	ctx = chatmodel.WithChatContext(ctx, chatCtx)

	require.NoError(t, st.Add(ctx, msg1))
	require.NoError(t, st.Add(ctx, msg2))

	messages := st.Messages(ctx)
	require.Equal(t, 2, len(messages))
	assert.Equal(t, "Hello\n", messages[0].GetContent())
	assert.Equal(t, "Hi there!\n", messages[1].GetContent())

	chi, err := st.GetChatInfo(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, chatID, chi.ChatID)

	list, err := st.ListChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, len(list))

	// new chat with generated ID
	chatCtx = chatmodel.NewChatContext("", nil)
	ctx = chatmodel.WithChatContext(ctx, chatCtx)
	assert.NotEqual(t, chatID, chatCtx.GetChatID())

	now := time.Now()
	time.Sleep(2 * time.Millisecond)
	ci, err := st.UpdateChat(ctx, "New chat", map[string]any{"key": "value"})
	require.NoError(t, err)
	assert.Equal(t, chatCtx.GetChatID(), ci.ChatID)
	assert.Equal(t, "New chat", ci.Title)
	assert.True(t, ci.CreatedAt.After(now))
	assert.True(t, ci.UpdatedAt.After(now))
	updatedAt := ci.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, st.Add(ctx, msg1))
	ci2, err := st.GetChatInfo(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, chatCtx.GetChatID(), ci2.ChatID)
	assert.True(t, ci2.UpdatedAt.After(updatedAt))

	chats, err := st.ListChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, len(chats))

	// unknown chat
	_, err = st.GetChatInfo(ctx, "no-such-chat")
	require.Error(t, err)

	// Reset clears messages
	require.NoError(t, st.Reset(ctx))
	assert.Equal(t, 0, len(st.Messages(ctx)))
}
