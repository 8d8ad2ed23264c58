package biz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingsFor(movieID int, values ...float64) []Rating {
	out := make([]Rating, 0, len(values))
	for i, v := range values {
		out = append(out, Rating{UserID: 100 + i, MovieID: movieID, Rating: v})
	}
	return out
}

func fixtureTables() *Tables {
	var ratings []Rating
	ratings = append(ratings, ratingsFor(1, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4)...)
	ratings = append(ratings, ratingsFor(2, 4.5, 4.5)...)
	ratings = append(ratings, ratingsFor(3, 3)...)
	ratings = append(ratings, ratingsFor(99, 5)...)
	return &Tables{
		Ratings: ratings,
		Tags: []Tag{
			{UserID: 1, MovieID: 1, Tag: "Based on a Book"},
			{UserID: 2, MovieID: 2, Tag: "book"},
			{UserID: 3, MovieID: 3, Tag: "time travel"},
			{UserID: 4, MovieID: 99, Tag: "book"},
			{UserID: 5, MovieID: 3, Tag: ""},
		},
		Movies: []Movie{
			{MovieID: 1, Title: "Fight Club", Genres: "Action|Drama"},
			{MovieID: 2, Title: "Stardust", Genres: "Comedy|Fantasy"},
			{MovieID: 3, Title: "Primer", Genres: NoGenresListed},
		},
	}
}

func ids(s []*Summary) []int {
	out := make([]int, 0, len(s))
	for _, row := range s {
		out = append(out, row.MovieID)
	}
	return out
}

func TestQuery_CrossUserCaseInsensitiveMatch(t *testing.T) {
	tables := &Tables{
		Ratings: []Rating{{UserID: 1, MovieID: 1, Rating: 5.0}},
		Tags:    []Tag{{UserID: 2, MovieID: 1, Tag: "Time Travel"}},
		Movies:  []Movie{{MovieID: 1, Title: "Looper", Genres: "Action|Sci-Fi"}},
	}

	got := Query(tables, &QueryRequest{TagFilter: "time travel", SortKey: SortByAverageRating})

	require.Len(t, got, 1)
	assert.Equal(t, &Summary{
		MovieID:       1,
		Title:         "Looper",
		Genres:        "Action|Sci-Fi",
		AverageRating: 5.0,
		RatingCount:   1,
	}, got[0])
}

func TestQuery_SortKeys(t *testing.T) {
	tables := fixtureTables()

	byRating := Query(tables, &QueryRequest{TagFilter: "book", SortKey: SortByAverageRating})
	assert.Equal(t, []int{2, 1}, ids(byRating))

	byPopularity := Query(tables, &QueryRequest{TagFilter: "book", SortKey: SortByPopularity})
	assert.Equal(t, []int{1, 2}, ids(byPopularity))

	assert.InDelta(t, 4.0, byPopularity[0].AverageRating, 1e-9)
	assert.Equal(t, 10, byPopularity[0].RatingCount)
	assert.InDelta(t, 4.5, byPopularity[1].AverageRating, 1e-9)
	assert.Equal(t, 2, byPopularity[1].RatingCount)
}

func TestQuery_GenreFilter(t *testing.T) {
	tables := fixtureTables()

	tests := []struct {
		name   string
		genres []string
		want   []int
	}{
		{name: "no filter", genres: nil, want: []int{2, 1}},
		{name: "single genre", genres: []string{"Comedy"}, want: []int{2}},
		{name: "any genre matches", genres: []string{"Drama", "Fantasy"}, want: []int{2, 1}},
		{name: "unknown genre", genres: []string{"Western"}, want: []int{}},
		{name: "sentinel never matches", genres: []string{NoGenresListed}, want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(tables, &QueryRequest{TagFilter: "book", Genres: tt.genres})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQuery_EmptyResults(t *testing.T) {
	tables := fixtureTables()

	for _, key := range []SortKey{SortByAverageRating, SortByPopularity} {
		assert.Empty(t, Query(tables, &QueryRequest{TagFilter: "", SortKey: key}))
		assert.Empty(t, Query(tables, &QueryRequest{TagFilter: "", Genres: []string{"Comedy"}, SortKey: key}))
		assert.Empty(t, Query(tables, &QueryRequest{TagFilter: "zzz-nonexistent", SortKey: key}))
	}
}

func TestQuery_DropsMoviesWithoutMetadata(t *testing.T) {
	got := Query(fixtureTables(), &QueryRequest{TagFilter: "book"})
	assert.NotContains(t, ids(got), 99)
}

func TestQuery_TaggedMovieWithoutRatings(t *testing.T) {
	tables := fixtureTables()
	tables.Tags = append(tables.Tags, Tag{UserID: 9, MovieID: 4, Tag: "book"})
	tables.Movies = append(tables.Movies, Movie{MovieID: 4, Title: "Unrated", Genres: "Drama"})

	got := Query(tables, &QueryRequest{TagFilter: "book"})
	assert.NotContains(t, ids(got), 4)
}

func TestQuery_SentinelMovieWithoutGenreFilter(t *testing.T) {
	got := Query(fixtureTables(), &QueryRequest{TagFilter: "TIME"})
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].MovieID)
}

func TestQuery_MeanMatchesIndependentComputation(t *testing.T) {
	tables := fixtureTables()
	tables.Ratings = append(tables.Ratings, Rating{UserID: 7, MovieID: 2, Rating: 0.5})

	for _, row := range Query(tables, &QueryRequest{TagFilter: "o"}) {
		var sum float64
		var count int
		for _, r := range tables.Ratings {
			if r.MovieID == row.MovieID {
				sum += r.Rating
				count++
			}
		}
		require.GreaterOrEqual(t, row.RatingCount, 1)
		assert.Equal(t, count, row.RatingCount, "movie %d", row.MovieID)
		assert.InDelta(t, sum/float64(count), row.AverageRating, 1e-9, "movie %d", row.MovieID)
	}
}

func TestQuery_DeterministicTieBreak(t *testing.T) {
	tables := &Tables{}
	for id := 1; id <= 20; id++ {
		tables.Movies = append(tables.Movies, Movie{MovieID: id, Title: fmt.Sprintf("Movie %02d", id%5), Genres: "Drama"})
		tables.Tags = append(tables.Tags, Tag{UserID: id, MovieID: id, Tag: "noir"})
		tables.Ratings = append(tables.Ratings, Rating{UserID: id, MovieID: id, Rating: 3.5})
	}
	req := &QueryRequest{TagFilter: "noir", SortKey: SortByPopularity}

	first := Query(tables, req)
	require.Len(t, first, 20)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Query(tables, req))
	}
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		assert.True(t, prev.Title < cur.Title || (prev.Title == cur.Title && prev.MovieID < cur.MovieID))
	}
}

func TestSortSummaries_Monotonic(t *testing.T) {
	rows := []*Summary{
		{MovieID: 1, Title: "A", AverageRating: 3.0, RatingCount: 7},
		{MovieID: 2, Title: "B", AverageRating: 4.5, RatingCount: 2},
		{MovieID: 3, Title: "C", AverageRating: 4.5, RatingCount: 9},
		{MovieID: 4, Title: "D", AverageRating: 1.0, RatingCount: 9},
	}

	SortSummaries(rows, SortByAverageRating)
	assert.Equal(t, []int{3, 2, 1, 4}, ids(rows))

	SortSummaries(rows, SortByPopularity)
	assert.Equal(t, []int{3, 4, 1, 2}, ids(rows))
}

func TestTruncate(t *testing.T) {
	rows := []*Summary{{MovieID: 1}, {MovieID: 2}, {MovieID: 3}}

	assert.Len(t, Truncate(rows, 2), 2)
	assert.Len(t, Truncate(rows, 10), 3)
	assert.Len(t, Truncate(rows, 0), 3)
	assert.Empty(t, Truncate(nil, 10))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByAverageRating, key)

	key, err = ParseSortKey("popularity")
	require.NoError(t, err)
	assert.Equal(t, SortByPopularity, key)
	assert.Equal(t, "popularity", key.String())

	_, err = ParseSortKey("views")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}
