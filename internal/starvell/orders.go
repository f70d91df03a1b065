package starvell

import "context"

type ordersPayload struct {
	PageProps struct {
		Orders []Order `json:"orders"`
	} `json:"pageProps"`
}

// FetchSells returns the account's sell-side order list.
func (c *Client) FetchSells(ctx context.Context, creds Credentials) ([]Order, error) {
	var payload ordersPayload
	if err := c.get(ctx, "/api/orders/sells", creds, &payload); err != nil {
		return nil, err
	}
	return payload.PageProps.Orders, nil
}
