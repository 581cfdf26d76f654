package reddit

import (
	"bytes"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/iamtxena/finance-scoop/pkg/errors"
)

// parseCommentTree rebuilds parent/child nesting from a comment listing.
// "more" placeholder nodes (unexpanded reply pages) are dropped; each kept
// node is tagged with its depth from the root.
func parseCommentTree(page listing, depth int) ([]Comment, error) {
	var comments []Comment
	for _, ch := range page.Data.Children {
		if ch.Kind != "t1" {
			continue
		}

		var raw rawComment
		if err := json.Unmarshal(ch.Data, &raw); err != nil {
			return nil, pkgerrors.ExternalSource("reddit", fmt.Errorf("malformed comment payload: %w", err))
		}

		author := raw.Author
		if author == "" {
			author = DeletedAuthor
		}

		comment := Comment{
			ID:         raw.ID,
			Author:     author,
			Body:       raw.Body,
			Score:      raw.Score,
			CreatedUTC: raw.CreatedUTC,
			Depth:      depth,
		}

		if hasReplies(raw.Replies) {
			var nested listing
			if err := json.Unmarshal(raw.Replies, &nested); err != nil {
				return nil, pkgerrors.ExternalSource("reddit", fmt.Errorf("malformed reply listing: %w", err))
			}
			children, err := parseCommentTree(nested, depth+1)
			if err != nil {
				return nil, err
			}
			comment.Replies = children
		}

		comments = append(comments, comment)
	}
	return comments, nil
}

// hasReplies reports whether the replies field holds a nested listing.
// Reddit encodes a leaf comment's replies as the empty string.
func hasReplies(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
