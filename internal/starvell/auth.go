package starvell

import "context"

// FetchSession probes the current authorization state of the session cookie
// and returns the acting account plus the secondary sid token.
func (c *Client) FetchSession(ctx context.Context, creds Credentials) (*Session, error) {
	var sess Session
	if err := c.get(ctx, "/api/auth/session", creds, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}
