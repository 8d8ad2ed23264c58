package biz

import (
	"sort"
	"strings"
)

// Query runs one discovery query over the tables and returns every matching movie,
// ranked by req.SortKey.
//
// A rating counts towards a movie when any tag row of that movie contains the tag
// filter, whichever user wrote the tag. Ratings of movies missing from the catalog
// are dropped. A non-empty genre filter keeps movies carrying at least one of the
// requested genres. An empty tag filter matches nothing.
func Query(t *Tables, req *QueryRequest) []*Summary {
	filter := strings.ToLower(req.TagFilter)
	if filter == "" {
		return nil
	}

	tagged := make(map[int]struct{})
	for _, tag := range t.Tags {
		if tag.Tag == "" {
			continue
		}
		if strings.Contains(strings.ToLower(tag.Tag), filter) {
			tagged[tag.MovieID] = struct{}{}
		}
	}
	if len(tagged) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(req.Genres))
	for _, g := range req.Genres {
		wanted[g] = struct{}{}
	}

	movies := make(map[int]*Movie, len(tagged))
	for i := range t.Movies {
		m := &t.Movies[i]
		if _, ok := tagged[m.MovieID]; !ok {
			continue
		}
		if len(wanted) > 0 && !hasAnyGenre(m.Genres, wanted) {
			continue
		}
		movies[m.MovieID] = m
	}
	if len(movies) == 0 {
		return nil
	}

	type total struct {
		sum   float64
		count int
	}
	totals := make(map[int]*total, len(movies))
	for _, r := range t.Ratings {
		if _, ok := movies[r.MovieID]; !ok {
			continue
		}
		acc, ok := totals[r.MovieID]
		if !ok {
			acc = &total{}
			totals[r.MovieID] = acc
		}
		acc.sum += r.Rating
		acc.count++
	}

	out := make([]*Summary, 0, len(totals))
	for id, acc := range totals {
		m := movies[id]
		out = append(out, &Summary{
			MovieID:       id,
			Title:         m.Title,
			Genres:        m.Genres,
			AverageRating: acc.sum / float64(acc.count),
			RatingCount:   acc.count,
		})
	}
	SortSummaries(out, req.SortKey)
	return out
}

// SortSummaries orders summaries by key. Remaining ties fall back to title, then movie ID,
// so the order is total.
func SortSummaries(s []*Summary, key SortKey) {
	sort.Slice(s, func(i, j int) bool {
		a, b := s[i], s[j]
		switch key {
		case SortByPopularity:
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
			if a.AverageRating != b.AverageRating {
				return a.AverageRating > b.AverageRating
			}
		default:
			if a.AverageRating != b.AverageRating {
				return a.AverageRating > b.AverageRating
			}
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.MovieID < b.MovieID
	})
}

// Truncate returns at most n leading summaries. n <= 0 keeps everything.
func Truncate(s []*Summary, n int) []*Summary {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func hasAnyGenre(raw string, wanted map[string]struct{}) bool {
	for _, g := range SplitGenres(raw) {
		if _, ok := wanted[g]; ok {
			return true
		}
	}
	return false
}
