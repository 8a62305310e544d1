package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TempIDPrefix marks identifiers generated locally for optimistic sends.
const TempIDPrefix = "temp-"

// LocalSenderID is the sender placeholder used for optimistic entries when the
// signed-in user's id is not known.
const LocalSenderID = "current-user"

// DeliveryState is the local delivery status of a message. It is never sent to
// or received from the API.
type DeliveryState string

const (
	DeliveryConfirmed DeliveryState = "confirmed"
	DeliveryPending   DeliveryState = "pending"
	DeliveryFailed    DeliveryState = "failed"
)

// SenderKind tags which shape the API used for a message sender.
type SenderKind int

const (
	SenderKindID SenderKind = iota
	SenderKindSummary
)

// Sender is either a bare participant id or an embedded user summary.
type Sender struct {
	Kind SenderKind
	ID   string
	Name string
}

// SenderID builds a bare-id sender.
func SenderID(id string) Sender {
	return Sender{Kind: SenderKindID, ID: id}
}

// SenderSummary builds an embedded-summary sender.
func SenderSummary(id, name string) Sender {
	return Sender{Kind: SenderKindSummary, ID: id, Name: name}
}

type senderSummary struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts either "id" or {"_id": "id", "name": "..."}.
func (s *Sender) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Sender{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*s = SenderID(id)
		return nil
	}

	var summary senderSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return fmt.Errorf("decode sender: %w", err)
	}
	*s = SenderSummary(summary.ID, summary.Name)
	return nil
}

// MarshalJSON writes the sender back in the shape it was received in.
func (s Sender) MarshalJSON() ([]byte, error) {
	if s.Kind == SenderKindSummary {
		return json.Marshal(senderSummary{ID: s.ID, Name: s.Name})
	}
	return json.Marshal(s.ID)
}

// Message is a single message in a match conversation.
type Message struct {
	ID            string        `json:"_id"`
	MatchID       string        `json:"matchId"`
	Sender        Sender        `json:"sender"`
	Receiver      string        `json:"receiver"`
	Content       string        `json:"content"`
	IsRead        bool          `json:"isRead"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
	DeliveryState DeliveryState `json:"deliveryState,omitempty"`
}

// IsTemporary reports whether the id was generated locally.
func (m Message) IsTemporary() bool {
	return strings.HasPrefix(m.ID, TempIDPrefix)
}

// IsUnconfirmed reports whether the message is a pending or failed local send.
func (m Message) IsUnconfirmed() bool {
	return m.DeliveryState == DeliveryPending || m.DeliveryState == DeliveryFailed
}

// CreatedTime parses CreatedAt. ok is false for missing or malformed timestamps.
func (m Message) CreatedTime() (t time.Time, ok bool) {
	if m.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, m.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SendMessageRequest is the body of POST /messages/send.
type SendMessageRequest struct {
	MatchID string `json:"matchId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UnreadCount is the body of GET /messages/unread.
type UnreadCount struct {
	UnreadCount int `json:"unreadCount"`
}
