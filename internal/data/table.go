package data

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"moviediscovery/internal/biz"
	"moviediscovery/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

// tableRepo loads the catalog once and then serves the same read-only tables.
type tableRepo struct {
	data   *Data
	source *conf.Data_Source
	log    *log.Helper

	mu     sync.Mutex
	tables *biz.Tables
}

// NewTableRepo creates a new table repository
func NewTableRepo(data *Data, c *conf.Data, logger log.Logger) biz.TableRepo {
	var source *conf.Data_Source
	if c != nil {
		source = c.Source
	}
	if source == nil {
		source = &conf.Data_Source{Kind: SourceCSV}
	}
	return &tableRepo{
		data:   data,
		source: source,
		log:    log.NewHelper(logger),
	}
}

// Tables returns the loaded tables, loading them on first use. A failed load is not
// remembered, the next caller retries.
func (r *tableRepo) Tables(ctx context.Context) (*biz.Tables, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tables != nil {
		return r.tables, nil
	}

	start := time.Now()
	tables, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	tables.Seal()
	r.log.Infof("catalog loaded from %s in %s: %d ratings, %d tags, %d movies",
		r.source.Kind, time.Since(start), len(tables.Ratings), len(tables.Tags), len(tables.Movies))

	r.tables = tables
	return tables, nil
}

// ImportCSVTables loads the csv tables described by src and copies them into the
// configured database.
func ImportCSVTables(ctx context.Context, data *Data, src *conf.Data_Source) (*biz.Tables, error) {
	if data.db == nil {
		return nil, errors.New("no database configured")
	}
	tables, err := loadCSVTables(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load csv tables from %q: %w", src.Dir, err)
	}
	if err := importTables(ctx, data.db, tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *tableRepo) load(ctx context.Context) (*biz.Tables, error) {
	switch r.source.Kind {
	case "", SourceCSV:
		tables, err := loadCSVTables(ctx, r.source)
		if err != nil {
			return nil, fmt.Errorf("failed to load csv tables from %q: %w", r.source.Dir, err)
		}
		return tables, nil
	case SourceDatabase:
		if r.data.db == nil {
			return nil, errors.New("source kind database requires data.database")
		}
		return loadDatabaseTables(ctx, r.data.db)
	default:
		return nil, fmt.Errorf("unknown table source %q", r.source.Kind)
	}
}
