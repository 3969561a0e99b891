package search

// TextParams describes a single text search.
type TextParams struct {
	Query      string
	Region     Region
	SafeSearch SafeSearch
	// Backends is tried in order. Empty or ["auto"] means DefaultBackendOrder.
	Backends   []string
	MaxResults int
}

// TextResult is one organic search result.
type TextResult struct {
	Title string
	Href  string
	Body  string
}
