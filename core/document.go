package core

// Document represents a retrieved search result with a relevance score and
// arbitrary metadata. Retrieval backends populate Score with their native
// relevance measure; re-ranking replaces it with the ranking service's score.
type Document struct {
	ID       string         `json:"id"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
