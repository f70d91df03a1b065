package gist

import (
	"context"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client polls a GitHub gist that operators use as a broadcast channel: the
// gist's JSON file is the versioned digest descriptor, its comments are the
// operator note stream.
type Client struct {
	client  *github.Client
	gistID  string
	ownerID int64
}

func NewClient(gistID string, ownerID int64, token string) *Client {
	hc := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
	}

	return &Client{
		client:  github.NewClient(hc),
		gistID:  gistID,
		ownerID: ownerID,
	}
}
