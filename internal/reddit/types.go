package reddit

import "encoding/json"

// DeletedAuthor is the placeholder recorded when Reddit reports no author
// for a post or comment.
const DeletedAuthor = "[deleted]"

// Post is a candidate post as returned by Reddit's public listing API,
// normalized for the rest of the system. It is transient: only classified
// outcomes are persisted.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
}

// Comment is a node of a post's reply tree. Depth is measured from the root
// comments, which sit at depth 0.
type Comment struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	Score      int       `json:"score"`
	CreatedUTC float64   `json:"created_utc"`
	Depth      int       `json:"depth"`
	Replies    []Comment `json:"replies,omitempty"`
}

// Reddit wire shapes. A listing wraps children whose kind discriminates the
// payload: t3 posts, t1 comments, and "more" placeholders that stand in for
// unexpanded reply pages.
type listing struct {
	Data struct {
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type rawPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
}

type rawComment struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	// Replies is a nested listing when the comment has children and the
	// empty string when it does not.
	Replies json.RawMessage `json:"replies"`
}
