package data

import (
	"context"
	"encoding/json"
	"time"

	"moviediscovery/internal/biz"
	"moviediscovery/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

const defaultSummaryTTL = 15 * time.Minute

type summaryCache struct {
	data *Data
	ttl  time.Duration
	log  *log.Helper
}

// NewSummaryCache creates a redis backed query result cache. Without redis every
// lookup misses and writes are dropped.
func NewSummaryCache(data *Data, c *conf.Data, logger log.Logger) biz.SummaryCache {
	ttl := defaultSummaryTTL
	if c != nil && c.Redis != nil && c.Redis.Ttl.AsDuration() > 0 {
		ttl = c.Redis.Ttl.AsDuration()
	}
	return &summaryCache{
		data: data,
		ttl:  ttl,
		log:  log.NewHelper(logger),
	}
}

func (c *summaryCache) GetSummaries(ctx context.Context, key string) ([]*biz.Summary, bool) {
	if c.data.rdb == nil {
		return nil, false
	}
	cached, err := c.data.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var summaries []*biz.Summary
	if err := json.Unmarshal(cached, &summaries); err != nil {
		c.log.Warnf("dropping unreadable cache entry %s: %v", key, err)
		return nil, false
	}
	return summaries, true
}

func (c *summaryCache) SetSummaries(ctx context.Context, key string, summaries []*biz.Summary) {
	if c.data.rdb == nil {
		return
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	if err := c.data.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warnf("failed to cache query %s: %v", key, err)
	}
}
