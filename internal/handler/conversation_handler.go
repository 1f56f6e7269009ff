package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ClareAI/astra-voice-bridge/internal/convstore"
	"github.com/gorilla/mux"
)

// ConversationHandler exposes a read-only snapshot of tracked conversations
// for operational inspection.
type ConversationHandler struct {
	conversations *convstore.Store
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *convstore.Store) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// SetupConversationRoutes registers conversation inspection routes
func (h *ConversationHandler) SetupConversationRoutes(router *mux.Router) {
	router.HandleFunc("/conversations", h.ListConversations).Methods("GET")
}

// ListConversations returns the caller -> conversation id mapping.
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	snapshot := h.conversations.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"count":         len(snapshot),
		"conversations": snapshot,
	})
}
