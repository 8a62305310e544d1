package model

import (
	"strings"
	"unicode"
)

// Participant is the other user in a match conversation.
type Participant struct {
	ID             string `json:"_id"`
	Name           string `json:"name,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Initials returns up to two upper-case initials, or "?" when there is no name.
func (p Participant) Initials() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return "?"
	}
	out := make([]rune, 0, 2)
	for _, f := range fields {
		out = append(out, unicode.ToUpper([]rune(f)[0]))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// LatestMessage summarizes the most recent message of a conversation.
type LatestMessage struct {
	ID        string `json:"_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Conversation is one entry of GET /messages/conversations.
type Conversation struct {
	MatchID       string         `json:"matchId"`
	User          *Participant   `json:"user"`
	LatestMessage *LatestMessage `json:"latestMessage"`
	UnreadCount   int            `json:"unreadCount"`
	UpdatedAt     string         `json:"updatedAt"`
}
