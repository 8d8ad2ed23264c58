package biz

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// NoGenresListed marks a movie without genres in the source catalog.
const NoGenresListed = "(no genres listed)"

// GenreSeparator joins genre tokens in Movie.Genres.
const GenreSeparator = "|"

// Rating domain model, one row per user/movie rating event
type Rating struct {
	UserID    int
	MovieID   int
	Rating    float64
	Timestamp int64
}

// Tag domain model, one row per user-applied tag. An empty Tag is absent.
type Tag struct {
	UserID    int
	MovieID   int
	Tag       string
	Timestamp int64
}

// Movie domain model
type Movie struct {
	MovieID int
	Title   string
	Genres  string
}

// Tables holds the three loaded source tables. They are never mutated after load.
type Tables struct {
	Ratings []Rating
	Tags    []Tag
	Movies  []Movie

	fingerprint string
}

// Seal records the content fingerprint. Loaders call it once, before the tables are shared.
func (t *Tables) Seal() {
	t.fingerprint = t.contentHash()
}

// Fingerprint identifies the table contents for cache keys. Unsealed tables are hashed
// on every call.
func (t *Tables) Fingerprint() string {
	if t.fingerprint != "" {
		return t.fingerprint
	}
	return t.contentHash()
}

func (t *Tables) contentHash() string {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	putString := func(s string) {
		put(uint64(len(s)))
		_, _ = d.WriteString(s)
	}

	put(uint64(len(t.Ratings)))
	for _, r := range t.Ratings {
		put(uint64(r.UserID))
		put(uint64(r.MovieID))
		put(math.Float64bits(r.Rating))
	}
	put(uint64(len(t.Tags)))
	for _, tag := range t.Tags {
		put(uint64(tag.UserID))
		put(uint64(tag.MovieID))
		putString(tag.Tag)
	}
	put(uint64(len(t.Movies)))
	for _, m := range t.Movies {
		put(uint64(m.MovieID))
		putString(m.Title)
		putString(m.Genres)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Summary is the per-movie aggregate produced by one query
type Summary struct {
	MovieID       int     `json:"movie_id"`
	Title         string  `json:"title"`
	Genres        string  `json:"genres"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// SortKey selects the ranking of a query result.
type SortKey int

const (
	// SortByAverageRating ranks by mean rating, then count.
	SortByAverageRating SortKey = iota
	// SortByPopularity ranks by rating count, then mean rating.
	SortByPopularity
)

func (k SortKey) String() string {
	switch k {
	case SortByAverageRating:
		return "rating"
	case SortByPopularity:
		return "popularity"
	default:
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
}

// ParseSortKey maps the API names onto a SortKey. An empty name means SortByAverageRating.
func ParseSortKey(name string) (SortKey, error) {
	switch name {
	case "", "rating", "average_rating":
		return SortByAverageRating, nil
	case "popularity":
		return SortByPopularity, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSortKey, name)
	}
}

// QueryRequest is one immutable discovery query
type QueryRequest struct {
	TagFilter string
	Genres    []string
	SortKey   SortKey
}

// TableRepo supplies the loaded source tables
type TableRepo interface {
	Tables(ctx context.Context) (*Tables, error)
}

// SummaryCache memoizes finished query results. Implementations may drop entries at any time.
type SummaryCache interface {
	GetSummaries(ctx context.Context, key string) ([]*Summary, bool)
	SetSummaries(ctx context.Context, key string, summaries []*Summary)
}
