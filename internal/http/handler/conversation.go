package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"heartlink/internal/conversation"
	"heartlink/internal/model"
)

// ConversationView is the mounted conversation.
type ConversationView interface {
	Open(ctx context.Context, matchID string) error
	Close()
	SetDraft(draft string)
	Send(ctx context.Context, content string) (model.Message, error)
	Retry(ctx context.Context, id string) (model.Message, error)
	View(now time.Time, labels *conversation.Labels) conversation.View
}

// Inbox lists conversations.
type Inbox interface {
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	UnreadCount(ctx context.Context) (int, error)
}

// ConversationHandler provides HTTP endpoints for the inbox and the open
// conversation.
type ConversationHandler struct {
	view   ConversationView
	inbox  Inbox
	labels *conversation.Labels
	loc    *time.Location
	now    func() time.Time
}

// NewConversationHandler builds a ConversationHandler. Calendar days and
// clock times are rendered in loc.
func NewConversationHandler(view ConversationView, inbox Inbox, labels *conversation.Labels, loc *time.Location) *ConversationHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ConversationHandler{view: view, inbox: inbox, labels: labels, loc: loc, now: time.Now}
}

type sendRequest struct {
	Content string `json:"content"`
}

type draftRequest struct {
	Draft string `json:"draft"`
}

// List handles GET /conversations.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inbox.ListConversations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Conversation{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Unread handles GET /conversations/unread.
func (h *ConversationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	count, err := h.inbox.UnreadCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.UnreadCount{UnreadCount: count})
}

// Open handles PUT /conversations/{matchId}. A load failure is reported
// with the rendered view so the client can offer a retry.
func (h *ConversationHandler) Open(w http.ResponseWriter, r *http.Request) {
	err := h.view.Open(r.Context(), chi.URLParam(r, "matchId"))
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	writeJSON(w, status, h.render())
}

// Current handles GET /conversations/current.
func (h *ConversationHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.render())
}

// Close handles DELETE /conversations/current.
func (h *ConversationHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.view.Close()
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// Draft handles PUT /conversations/current/draft.
func (h *ConversationHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.view.SetDraft(req.Draft)
	writeJSON(w, http.StatusOK, h.render())
}

// Send handles POST /conversations/current/messages.
func (h *ConversationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := h.view.Send(r.Context(), req.Content)
	h.respondDelivery(w, msg, err)
}

// Retry handles POST /conversations/current/messages/{id}/retry.
func (h *ConversationHandler) Retry(w http.ResponseWriter, r *http.Request) {
	msg, err := h.view.Retry(r.Context(), chi.URLParam(r, "id"))
	h.respondDelivery(w, msg, err)
}

func (h *ConversationHandler) respondDelivery(w http.ResponseWriter, msg model.Message, err error) {
	if err == nil {
		writeJSON(w, http.StatusCreated, msg)
		return
	}
	if msg.ID == "" {
		writeError(w, err)
		return
	}
	// the entry exists and is marked failed
	writeJSON(w, statusFor(err), map[string]interface{}{
		"error":   err.Error(),
		"message": msg,
	})
}

func (h *ConversationHandler) render() conversation.View {
	return h.view.View(h.now().In(h.loc), h.labels)
}
