package starvell

import (
	"context"
	"fmt"
)

type offerDetailPayload struct {
	PageProps struct {
		Offer *Offer `json:"offer"`
	} `json:"pageProps"`
}

// FetchLots lists the account's active listings.
func (c *Client) FetchLots(ctx context.Context, creds Credentials, userID ID) ([]Lot, error) {
	if userID.Empty() {
		return nil, fmt.Errorf("fetch lots: empty user id")
	}
	var lots []Lot
	path := fmt.Sprintf("/api/users/%s/offers", userID)
	if err := c.get(ctx, path, creds, &lots); err != nil {
		return nil, err
	}
	return lots, nil
}

// FetchOfferDetail resolves a listing to its game and category identifiers.
func (c *Client) FetchOfferDetail(ctx context.Context, creds Credentials, lotID int64) (*Offer, error) {
	var payload offerDetailPayload
	path := fmt.Sprintf("/api/offers/%d", lotID)
	if err := c.get(ctx, path, creds, &payload); err != nil {
		return nil, err
	}
	if payload.PageProps.Offer == nil {
		return nil, fmt.Errorf("offer %d: missing payload", lotID)
	}
	return payload.PageProps.Offer, nil
}
