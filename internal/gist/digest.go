package gist

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
)

// descriptorFile is the preferred file name inside the digest gist.
const descriptorFile = "cxh.json"

type DescriptorButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Descriptor is the operator-authored digest document. Key is the dedup key
// derived from the explicit tag when present, else from the content hash and
// the gist's own updated timestamp.
type Descriptor struct {
	Tag      string               `json:"tag"`
	Text     string               `json:"text"`
	Photo    string               `json:"ph"`
	Pin      bool                 `json:"pin"`
	Keyboard [][]DescriptorButton `json:"kb"`

	Key string `json:"-"`
}

// Comment is one operator note from the gist comment feed.
type Comment struct {
	ID   int64
	Body string
	Key  string
}

// FetchDescriptor downloads the digest gist and decodes its descriptor file.
func (c *Client) FetchDescriptor(ctx context.Context) (*Descriptor, error) {
	g, _, err := c.client.Gists.Get(ctx, c.gistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gist: %v", err)
	}

	content := pickDescriptorContent(g)
	if content == "" {
		return nil, fmt.Errorf("gist %s has no readable descriptor file", c.gistID)
	}

	var d Descriptor
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %v", err)
	}
	var updatedAt string
	if !g.GetUpdatedAt().IsZero() {
		updatedAt = g.GetUpdatedAt().UTC().Format(time.RFC3339)
	}
	d.Key = DescriptorKey(d.Tag, content, updatedAt)
	return &d, nil
}

// pickDescriptorContent prefers the canonical file name, then any JSON file,
// then whatever file comes first.
func pickDescriptorContent(g *github.Gist) string {
	if g == nil || len(g.Files) == 0 {
		return ""
	}
	if f, ok := g.Files[descriptorFile]; ok && f.GetContent() != "" {
		return f.GetContent()
	}

	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		names = append(names, string(name))
	}
	sort.Strings(names)

	for _, name := range names {
		f := g.Files[github.GistFilename(name)]
		if strings.EqualFold(f.GetLanguage(), "json") || strings.HasSuffix(strings.ToLower(name), ".json") {
			if f.GetContent() != "" {
				return f.GetContent()
			}
		}
	}
	for _, name := range names {
		f := g.Files[github.GistFilename(name)]
		if content := f.GetContent(); content != "" {
			return content
		}
	}
	return ""
}

// FetchOwnerComments returns the gist comments authored by the trusted
// operator account, oldest first, capped at max.
func (c *Client) FetchOwnerComments(ctx context.Context, max int) ([]Comment, error) {
	opts := &github.ListOptions{PerPage: 100}
	raw, _, err := c.client.Gists.ListComments(ctx, c.gistID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list gist comments: %v", err)
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].GetID() < raw[j].GetID() })

	var comments []Comment
	for _, gc := range raw {
		if gc.GetUser().GetID() != c.ownerID {
			continue
		}
		body := strings.TrimSpace(gc.GetBody())
		if body == "" {
			continue
		}
		comments = append(comments, Comment{
			ID:   gc.GetID(),
			Body: body,
			Key:  CommentKey(gc.GetID(), body),
		})
		if max > 0 && len(comments) >= max {
			break
		}
	}
	return comments, nil
}

// DescriptorKey derives the dedup key for a descriptor revision: the explicit
// tag wins, otherwise the content hash combined with the upstream updated
// timestamp.
func DescriptorKey(tag, content, updatedAt string) string {
	if tag = strings.TrimSpace(tag); tag != "" {
		return "d:" + tag
	}
	sum := fmt.Sprintf("%x", sha256.Sum256([]byte(content)))[:16]
	if updatedAt != "" {
		return "d:" + updatedAt + ":" + sum
	}
	return "d:" + sum
}

// CommentKey derives the dedup key for an operator note: comment id when the
// feed assigns one, content hash otherwise.
func CommentKey(id int64, body string) string {
	if id != 0 {
		return fmt.Sprintf("n:%d", id)
	}
	return fmt.Sprintf("n:%x", sha256.Sum256([]byte(body)))
}
