package biz

import (
	"sort"
	"strings"
)

// BuildTagVocabulary returns the distinct lower-cased tags. With limit > 0 the most
// frequent limit tags are returned, ties ordered by tag; otherwise all tags in
// ascending order.
func BuildTagVocabulary(tags []Tag, limit int) []string {
	counts := make(map[string]int)
	for _, t := range tags {
		if t.Tag == "" {
			continue
		}
		counts[strings.ToLower(t.Tag)]++
	}

	vocab := make([]string, 0, len(counts))
	for tag := range counts {
		vocab = append(vocab, tag)
	}

	if limit <= 0 {
		sort.Strings(vocab)
		return vocab
	}

	sort.Slice(vocab, func(i, j int) bool {
		if counts[vocab[i]] != counts[vocab[j]] {
			return counts[vocab[i]] > counts[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > limit {
		vocab = vocab[:limit]
	}
	return vocab
}

// BuildGenreVocabulary returns every genre token used by movies, in ascending order.
func BuildGenreVocabulary(movies []Movie) []string {
	seen := make(map[string]struct{})
	for _, m := range movies {
		for _, g := range SplitGenres(m.Genres) {
			seen[g] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(seen))
	for g := range seen {
		vocab = append(vocab, g)
	}
	sort.Strings(vocab)
	return vocab
}

// SplitGenres splits a serialized genre field into its tokens, skipping empty tokens
// and the NoGenresListed marker.
func SplitGenres(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, GenreSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		g := strings.TrimSpace(part)
		if g == "" || g == NoGenresListed {
			continue
		}
		out = append(out, g)
	}
	return out
}
