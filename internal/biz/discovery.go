package biz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/singleflight"
)

// Custom errors
var (
	ErrInvalidSortKey = errors.New("invalid sort key")
	ErrCatalogLoad    = errors.New("catalog unavailable")
)

// DiscoveryUseCase answers tag/genre discovery queries over the loaded catalog
type DiscoveryUseCase struct {
	repo  TableRepo
	cache SummaryCache
	group singleflight.Group
	log   *log.Helper
}

// NewDiscoveryUseCase creates a new DiscoveryUseCase instance. cache may be nil.
func NewDiscoveryUseCase(repo TableRepo, cache SummaryCache, logger log.Logger) *DiscoveryUseCase {
	return &DiscoveryUseCase{
		repo:  repo,
		cache: cache,
		log:   log.NewHelper(logger),
	}
}

// Warmup loads the catalog ahead of the first query
func (uc *DiscoveryUseCase) Warmup(ctx context.Context) error {
	_, err := uc.tables(ctx)
	return err
}

// TagVocabulary returns the tag vocabulary, capped to the limit most frequent tags when limit > 0
func (uc *DiscoveryUseCase) TagVocabulary(ctx context.Context, limit int) ([]string, error) {
	t, err := uc.tables(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTagVocabulary(t.Tags, limit), nil
}

// GenreVocabulary returns every genre token of the catalog
func (uc *DiscoveryUseCase) GenreVocabulary(ctx context.Context) ([]string, error) {
	t, err := uc.tables(ctx)
	if err != nil {
		return nil, err
	}
	return BuildGenreVocabulary(t.Movies), nil
}

// Discover runs a query and returns the full ranked result. An empty tag filter yields
// an empty result without touching the catalog.
func (uc *DiscoveryUseCase) Discover(ctx context.Context, req *QueryRequest) ([]*Summary, error) {
	if req.TagFilter == "" {
		return nil, nil
	}

	t, err := uc.tables(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey(t, req)
	if uc.cache != nil {
		if cached, ok := uc.cache.GetSummaries(ctx, key); ok {
			uc.log.Debugf("cache hit for query %s", key)
			return cached, nil
		}
	}

	v, _, _ := uc.group.Do(key, func() (interface{}, error) {
		summaries := Query(t, req)
		if uc.cache != nil {
			uc.cache.SetSummaries(ctx, key, summaries)
		}
		return summaries, nil
	})
	return v.([]*Summary), nil
}

func (uc *DiscoveryUseCase) tables(ctx context.Context) (*Tables, error) {
	t, err := uc.repo.Tables(ctx)
	if err != nil {
		uc.log.Errorf("failed to load catalog: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogLoad, err)
	}
	return t, nil
}

// cacheKey identifies a query result. Genre order and tag case do not change the result,
// so they are normalized away. Genres and tag are quoted so no two requests share a key.
func cacheKey(t *Tables, req *QueryRequest) string {
	genres := make([]string, 0, len(req.Genres))
	for _, g := range req.Genres {
		genres = append(genres, strconv.Quote(g))
	}
	sort.Strings(genres)
	return fmt.Sprintf("discover:%s:%s:[%s]:%s",
		t.Fingerprint(),
		req.SortKey,
		strings.Join(genres, ","),
		strconv.Quote(strings.ToLower(req.TagFilter)),
	)
}
