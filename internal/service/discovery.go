package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	v1 "moviediscovery/api/discovery/v1"
	"moviediscovery/internal/biz"
	"moviediscovery/internal/conf"
)

const (
	defaultResultLimit = 10
	defaultMaxLimit    = 100

	messageNoTag     = "start typing a tag to explore movie recommendations"
	messageNoResults = "no results"
)

// DiscoveryService implements the DiscoveryService API
type DiscoveryService struct {
	uc  *biz.DiscoveryUseCase
	cfg *conf.Discovery
	log *log.Helper
}

// NewDiscoveryService creates a new DiscoveryService
func NewDiscoveryService(uc *biz.DiscoveryUseCase, c *conf.Discovery, logger log.Logger) *DiscoveryService {
	if c == nil {
		c = &conf.Discovery{}
	}
	return &DiscoveryService{
		uc:  uc,
		cfg: c,
		log: log.NewHelper(logger),
	}
}

// ListTags returns the tag vocabulary for tag selection
func (s *DiscoveryService) ListTags(ctx context.Context, req *v1.ListTagsRequest) (*v1.ListTagsReply, error) {
	limit := s.cfg.TagVocabularyLimit
	if req.Limit != nil {
		if *req.Limit < 0 {
			return nil, errors.BadRequest("INVALID_LIMIT", "limit must not be negative")
		}
		limit = *req.Limit
	}

	tags, err := s.uc.TagVocabulary(ctx, int(limit))
	if err != nil {
		return nil, convertError(err)
	}
	return &v1.ListTagsReply{Tags: tags}, nil
}

// ListGenres returns every genre of the catalog
func (s *DiscoveryService) ListGenres(ctx context.Context, req *v1.ListGenresRequest) (*v1.ListGenresReply, error) {
	genres, err := s.uc.GenreVocabulary(ctx)
	if err != nil {
		return nil, convertError(err)
	}
	return &v1.ListGenresReply{Genres: genres}, nil
}

// Discover implements tag/genre discovery
func (s *DiscoveryService) Discover(ctx context.Context, req *v1.DiscoverRequest) (*v1.DiscoverReply, error) {
	sortKey, err := biz.ParseSortKey(strings.ToLower(strings.TrimSpace(req.Sort)))
	if err != nil {
		return nil, errors.BadRequest("INVALID_SORT", fmt.Sprintf("sort must be rating or popularity, got %q", req.Sort))
	}

	limit, err := s.resultLimit(req.Limit)
	if err != nil {
		return nil, err
	}

	query := &biz.QueryRequest{
		TagFilter: strings.TrimSpace(req.Tag),
		SortKey:   sortKey,
	}
	for _, g := range req.Genre {
		if g = strings.TrimSpace(g); g != "" {
			query.Genres = append(query.Genres, g)
		}
	}

	reply := &v1.DiscoverReply{
		Tag:   query.TagFilter,
		Sort:  sortKey.String(),
		Items: []*v1.MovieSummary{},
	}
	if query.TagFilter == "" {
		reply.Message = messageNoTag
		return reply, nil
	}

	summaries, err := s.uc.Discover(ctx, query)
	if err != nil {
		return nil, convertError(err)
	}

	s.log.Debugf("discover tag=%q genres=%v sort=%s: %d movies", query.TagFilter, query.Genres, sortKey, len(summaries))
	reply.Total = int32(len(summaries))
	if len(summaries) == 0 {
		reply.Message = messageNoResults
		return reply, nil
	}
	for _, row := range biz.Truncate(summaries, limit) {
		reply.Items = append(reply.Items, summaryToProto(row))
	}
	return reply, nil
}

// HealthCheck implements health check
func (s *DiscoveryService) HealthCheck(ctx context.Context, req *v1.HealthCheckRequest) (*v1.HealthCheckReply, error) {
	return &v1.HealthCheckReply{
		Status: "ok",
	}, nil
}

func (s *DiscoveryService) resultLimit(requested *int32) (int, error) {
	maxLimit := int(s.cfg.MaxLimit)
	if maxLimit <= 0 {
		maxLimit = defaultMaxLimit
	}
	limit := int(s.cfg.DefaultLimit)
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if requested != nil {
		if *requested <= 0 {
			return 0, errors.BadRequest("INVALID_LIMIT", "limit must be positive")
		}
		limit = int(*requested)
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

func convertError(err error) error {
	if stderrors.Is(err, biz.ErrCatalogLoad) {
		return errors.ServiceUnavailable("CATALOG_UNAVAILABLE", "movie catalog is not available")
	}
	return err
}

func summaryToProto(s *biz.Summary) *v1.MovieSummary {
	return &v1.MovieSummary{
		MovieId:       int32(s.MovieID),
		Title:         s.Title,
		Genres:        s.Genres,
		AverageRating: s.AverageRating,
		RatingCount:   int32(s.RatingCount),
	}
}
