package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"moviediscovery/internal/biz"
	"moviediscovery/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteData(t *testing.T) *Data {
	t.Helper()
	c := &conf.Data{
		Database: &conf.Data_Database{
			Driver:      "sqlite",
			Source:      fmt.Sprintf("file:%s?mode=memory&cache=shared", filepath.Base(t.Name())),
			AutoMigrate: true,
		},
	}
	d, cleanup, err := NewData(c, log.DefaultLogger)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return d
}

func TestTableRepo_CSVLoadsOnce(t *testing.T) {
	dir := writeCatalog(t)
	c := &conf.Data{Source: &conf.Data_Source{Kind: SourceCSV, Dir: dir}}
	repo := NewTableRepo(&Data{}, c, log.DefaultLogger)
	ctx := context.Background()

	first, err := repo.Tables(ctx)
	require.NoError(t, err)

	// Later edits to the files are not observed by the loaded catalog.
	require.NoError(t, os.Remove(filepath.Join(dir, "ratings.csv")))
	second, err := repo.Tables(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestTableRepo_FailedLoadIsRetried(t *testing.T) {
	dir := t.TempDir()
	c := &conf.Data{Source: &conf.Data_Source{Kind: SourceCSV, Dir: dir}}
	repo := NewTableRepo(&Data{}, c, log.DefaultLogger)

	_, err := repo.Tables(context.Background())
	require.Error(t, err)

	full := writeCatalog(t)
	for _, name := range []string{"ratings.csv", "tags.csv", "movies.csv"} {
		body, err := os.ReadFile(filepath.Join(full, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), body, 0o644))
	}

	tables, err := repo.Tables(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Movies, 2)
}

func TestTableRepo_UnknownSource(t *testing.T) {
	repo := NewTableRepo(&Data{}, &conf.Data{Source: &conf.Data_Source{Kind: "parquet"}}, log.DefaultLogger)
	_, err := repo.Tables(context.Background())
	assert.Error(t, err)

	repo = NewTableRepo(&Data{}, &conf.Data{Source: &conf.Data_Source{Kind: SourceDatabase}}, log.DefaultLogger)
	_, err = repo.Tables(context.Background())
	assert.Error(t, err)
}

func TestTableRepo_DatabaseRoundTrip(t *testing.T) {
	d := newSQLiteData(t)
	ctx := context.Background()

	imported, err := ImportCSVTables(ctx, d, &conf.Data_Source{Dir: writeCatalog(t)})
	require.NoError(t, err)

	repo := NewTableRepo(d, &conf.Data{Source: &conf.Data_Source{Kind: SourceDatabase}}, log.DefaultLogger)
	loaded, err := repo.Tables(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t, imported.Ratings, loaded.Ratings)
	assert.ElementsMatch(t, imported.Tags, loaded.Tags)
	assert.ElementsMatch(t, imported.Movies, loaded.Movies)

	got := biz.Query(loaded, &biz.QueryRequest{TagFilter: "time travel"})
	require.Len(t, got, 1)
	assert.Equal(t, "Looper (2012)", got[0].Title)
	assert.InDelta(t, 4.5, got[0].AverageRating, 1e-9)
	assert.Equal(t, 2, got[0].RatingCount)
}

func TestImportCSVTables_RequiresDatabase(t *testing.T) {
	_, err := ImportCSVTables(context.Background(), &Data{}, &conf.Data_Source{Dir: writeCatalog(t)})
	assert.Error(t, err)
}

func TestSummaryCache_WithoutRedis(t *testing.T) {
	cache := NewSummaryCache(&Data{}, &conf.Data{}, log.DefaultLogger)
	ctx := context.Background()

	cache.SetSummaries(ctx, "k", []*biz.Summary{{MovieID: 1}})
	_, ok := cache.GetSummaries(ctx, "k")
	assert.False(t, ok)
}

func TestTableRepo_DatabaseTrimsTags(t *testing.T) {
	d := newSQLiteData(t)
	ctx := context.Background()

	blank, padded := "   ", "  noir "
	require.NoError(t, d.db.Create(&Movie{MovieID: 1, Title: "Heat", Genres: "Crime"}).Error)
	require.NoError(t, d.db.Create(&[]Tag{
		{UserID: 1, MovieID: 1, Tag: &blank},
		{UserID: 2, MovieID: 1, Tag: &padded},
	}).Error)
	require.NoError(t, d.db.Create(&Rating{UserID: 1, MovieID: 1, Rating: 4}).Error)

	repo := NewTableRepo(d, &conf.Data{Source: &conf.Data_Source{Kind: SourceDatabase}}, log.DefaultLogger)
	tables, err := repo.Tables(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"noir"}, biz.BuildTagVocabulary(tables.Tags, 0))
	assert.Empty(t, biz.Query(tables, &biz.QueryRequest{TagFilter: " "}))
}

func TestTableRepo_SealsTables(t *testing.T) {
	repo := NewTableRepo(&Data{}, &conf.Data{Source: &conf.Data_Source{Dir: writeCatalog(t)}}, log.DefaultLogger)
	tables, err := repo.Tables(context.Background())
	require.NoError(t, err)

	unsealed := &biz.Tables{Ratings: tables.Ratings, Tags: tables.Tags, Movies: tables.Movies}
	assert.Equal(t, unsealed.Fingerprint(), tables.Fingerprint())
}

func TestNewData_WithoutConfig(t *testing.T) {
	d, cleanup, err := NewData(nil, log.DefaultLogger)
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, d.db)
	assert.Nil(t, d.rdb)

	assert.NotNil(t, NewTableRepo(d, nil, log.DefaultLogger))
	assert.NotNil(t, NewSummaryCache(d, nil, log.DefaultLogger))
}
