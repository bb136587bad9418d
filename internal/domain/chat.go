package domain

// ChatSource is one cited source attached to a chat answer.
type ChatSource struct {
	Title      string `json:"title"`
	DocumentID string `json:"document_id"`
}

// ChatAnswer is the knowledge-hub response to one query.
type ChatAnswer struct {
	Answer  string       `json:"answer"`
	Sources []ChatSource `json:"sources,omitempty"`
}
