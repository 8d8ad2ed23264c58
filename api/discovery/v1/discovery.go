// Package v1 defines the discovery HTTP API messages and routes.
package v1

type ListTagsRequest struct {
	// Limit caps the vocabulary to the most frequent tags; 0 returns every tag.
	Limit *int32 `json:"limit,omitempty"`
}

type ListTagsReply struct {
	Tags []string `json:"tags"`
}

type ListGenresRequest struct{}

type ListGenresReply struct {
	Genres []string `json:"genres"`
}

type DiscoverRequest struct {
	Tag   string   `json:"tag"`
	Genre []string `json:"genre,omitempty"`
	// Sort is "rating" (default) or "popularity".
	Sort  string `json:"sort,omitempty"`
	Limit *int32 `json:"limit,omitempty"`
}

type MovieSummary struct {
	MovieId       int32   `json:"movie_id"`
	Title         string  `json:"title"`
	Genres        string  `json:"genres"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int32   `json:"rating_count"`
}

type DiscoverReply struct {
	Tag   string          `json:"tag"`
	Sort  string          `json:"sort"`
	Total int32           `json:"total"`
	Items []*MovieSummary `json:"items"`
	// Message is set when there is nothing to show.
	Message string `json:"message,omitempty"`
}

type HealthCheckRequest struct{}

type HealthCheckReply struct {
	Status string `json:"status"`
}
