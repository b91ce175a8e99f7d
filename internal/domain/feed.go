package domain

// Feed is a page of posts returned by the browse endpoints, newest first.
type Feed struct {
	Posts []PostView `json:"posts"`
}

// Stories is an account's own posts split by publication state, the shape
// the "your stories" page renders.
type Stories struct {
	Drafts    []PostView `json:"drafts"`
	Published []PostView `json:"published"`
}

// HomeFeedLimit caps the number of posts on the home feed.
const HomeFeedLimit = 20
