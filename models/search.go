package models

// SearchResult is one document returned by the auxiliary legal-norm search
// provider.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// SearchResponse is what the business layer receives from the search
// integration. When the provider is unavailable the boundary returns a
// degraded response with IsFallback set instead of an error; callers must
// branch on the flag, never on an exception.
type SearchResponse struct {
	Query      string         `json:"query"`
	Results    []SearchResult `json:"results"`
	IsFallback bool           `json:"is_fallback"`
}
