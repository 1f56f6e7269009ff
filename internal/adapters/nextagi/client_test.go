package nextagi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ClareAI/astra-voice-bridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamChatMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat-messages", r.URL.Path)
		assert.Equal(t, "Bearer key-default", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		var chatReq domain.ChatMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&chatReq))
		assert.Equal(t, "check my balance", chatReq.Query)
		assert.Equal(t, "streaming", chatReq.ResponseMode)
		assert.Equal(t, "+15551234567", chatReq.User)
		assert.Empty(t, chatReq.ConversationID)
		assert.NotNil(t, chatReq.Inputs)
		assert.NotNil(t, chatReq.Files)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"conversation_id\":\"conv_9\",\"answer\":\"Your balance is $42.\"}\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req := domain.NewStreamingChatMessageRequest("check my balance", "", "+15551234567")

	stream, err := client.StreamChatMessage(context.Background(), "key-default", req)
	require.NoError(t, err)
	defer stream.Close()

	event, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "conv_9", event.ConversationID)
	assert.Equal(t, "Your balance is $42.", event.Answer)

	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStreamChatMessageUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"internal error"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req := domain.NewStreamingChatMessageRequest("check my balance", "", "+15551234567")

	stream, err := client.StreamChatMessage(context.Background(), "key-default", req)
	require.Error(t, err)
	assert.Nil(t, stream)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "internal error")
}

func TestStreamChatMessageContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req := domain.NewStreamingChatMessageRequest("check my balance", "", "+15551234567")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.StreamChatMessage(ctx, "key-default", req)
	assert.Error(t, err)
}
