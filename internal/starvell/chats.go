package starvell

import (
	"context"
	"fmt"
)

type chatsPayload struct {
	PageProps struct {
		Chats []Chat `json:"chats"`
		User  struct {
			ID ID `json:"id"`
		} `json:"user"`
	} `json:"pageProps"`
}

// FetchChats returns the account's chat list with last-message summaries.
func (c *Client) FetchChats(ctx context.Context, creds Credentials) (*ChatsPage, error) {
	var payload chatsPayload
	if err := c.get(ctx, "/api/chats", creds, &payload); err != nil {
		return nil, err
	}
	return &ChatsPage{
		Chats: payload.PageProps.Chats,
		Self:  payload.PageProps.User.ID,
	}, nil
}

// FetchChatMessages returns the most recent messages of a chat, newest first.
func (c *Client) FetchChatMessages(ctx context.Context, creds Credentials, chatID ID, limit int) ([]Message, error) {
	if chatID.Empty() {
		return nil, fmt.Errorf("fetch chat messages: empty chat id")
	}
	var messages []Message
	path := fmt.Sprintf("/api/chats/%s/messages?limit=%d", chatID, limit)
	if err := c.get(ctx, path, creds, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
