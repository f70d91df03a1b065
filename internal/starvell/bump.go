package starvell

import (
	"context"
	"fmt"
	"net/http"
)

type bumpRequest struct {
	GameID      int64   `json:"gameId"`
	CategoryIDs []int64 `json:"categoryIds"`
}

type bumpResponse struct {
	Success bool `json:"success"`
	Results []struct {
		CategoryID int64 `json:"categoryId"`
		Success    bool  `json:"success"`
	} `json:"results"`
}

// BumpCategories issues one batched visibility-refresh request for a game
// covering all the given category ids and reports success per category. Older
// endpoint revisions answer with a single success flag; that flag then applies
// to every requested category.
func (c *Client) BumpCategories(ctx context.Context, creds Credentials, gameID int64, categoryIDs []int64, referer string) (map[int64]bool, error) {
	if len(categoryIDs) == 0 {
		return nil, fmt.Errorf("bump game %d: no categories", gameID)
	}
	var resp bumpResponse
	req := bumpRequest{GameID: gameID, CategoryIDs: categoryIDs}
	if err := c.do(ctx, http.MethodPost, "/api/offers/bump", referer, creds, req, &resp); err != nil {
		return nil, err
	}

	results := make(map[int64]bool, len(categoryIDs))
	if len(resp.Results) > 0 {
		for _, r := range resp.Results {
			results[r.CategoryID] = r.Success
		}
		return results, nil
	}
	for _, id := range categoryIDs {
		results[id] = resp.Success
	}
	return results, nil
}
