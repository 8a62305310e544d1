package gateway

import (
	"context"
	"net/http"
	"net/url"

	"heartlink/internal/model"
)

// ListConversations returns the signed-in user's conversation summaries.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var out []model.Conversation
	err := c.do(ctx, call{
		op:      "list_conversations",
		method:  http.MethodGet,
		path:    "/messages/conversations",
		auth:    true,
		failMsg: "Failed to fetch conversations",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMessages returns the full history of one match, oldest first.
func (c *Client) ListMessages(ctx context.Context, matchID string) ([]model.Message, error) {
	var out []model.Message
	err := c.do(ctx, call{
		op:      "list_messages",
		method:  http.MethodGet,
		path:    "/messages/match/" + url.PathEscape(matchID),
		auth:    true,
		failMsg: "Failed to fetch messages",
	}, &out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].DeliveryState = model.DeliveryConfirmed
	}
	return out, nil
}

// SendMessage posts content to a match and returns the stored message.
func (c *Client) SendMessage(ctx context.Context, matchID, content string) (model.Message, error) {
	var out model.Message
	err := c.do(ctx, call{
		op:      "send_message",
		method:  http.MethodPost,
		path:    "/messages/send",
		auth:    true,
		body:    &model.SendMessageRequest{MatchID: matchID, Content: content},
		failMsg: "Failed to send message",
	}, &out)
	if err != nil {
		return model.Message{}, err
	}
	out.DeliveryState = model.DeliveryConfirmed
	return out, nil
}

// UnreadCount returns the number of unread messages across all matches.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out model.UnreadCount
	err := c.do(ctx, call{
		op:      "unread_count",
		method:  http.MethodGet,
		path:    "/messages/unread",
		auth:    true,
		failMsg: "Failed to fetch unread count",
	}, &out)
	if err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}
