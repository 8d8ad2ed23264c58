package data

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"moviediscovery/internal/biz"
	"moviediscovery/internal/conf"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/ianaindex"
)

const (
	defaultRatingsFile = "ratings.csv"
	defaultTagsFile    = "tags.csv"
	defaultMoviesFile  = "movies.csv"
)

// loadCSVTables reads the three tables from the configured directory concurrently.
func loadCSVTables(ctx context.Context, c *conf.Data_Source) (*biz.Tables, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tables biz.Tables
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := os.Open(sourcePath(c.Dir, c.Ratings, defaultRatingsFile))
		if err != nil {
			return err
		}
		defer f.Close()
		tables.Ratings, err = readRatings(gctx, f)
		return err
	})
	g.Go(func() error {
		f, err := os.Open(sourcePath(c.Dir, c.Tags, defaultTagsFile))
		if err != nil {
			return err
		}
		defer f.Close()
		r, err := decodeReader(f, c.TagsEncoding)
		if err != nil {
			return err
		}
		tables.Tags, err = readTags(gctx, r)
		return err
	})
	g.Go(func() error {
		f, err := os.Open(sourcePath(c.Dir, c.Movies, defaultMoviesFile))
		if err != nil {
			return err
		}
		defer f.Close()
		tables.Movies, err = readMovies(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &tables, nil
}

func sourcePath(dir, name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// decodeReader converts r from the named charset to UTF-8. An empty name or UTF-8
// passes r through.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(r), nil
}

// csvRow is one record addressed by header name.
type csvRow struct {
	table  string
	line   int
	fields []string
	index  map[string]int
}

func (r *csvRow) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r *csvRow) integer(col string) (int, error) {
	raw := strings.TrimSpace(r.str(col))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: invalid %s %q", r.table, r.line, col, raw)
	}
	return v, nil
}

// optionalInt64 reads an optional integer column, zero when empty.
func (r *csvRow) optionalInt64(col string) (int64, error) {
	raw := strings.TrimSpace(r.str(col))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: invalid %s %q", r.table, r.line, col, raw)
	}
	return v, nil
}

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 1024

// readTable calls fn for every record after the header. Missing required columns,
// any fn error or a cancelled ctx rejects the whole table.
func readTable(ctx context.Context, src io.Reader, table string, required []string, fn func(row *csvRow) error) error {
	reader := csv.NewReader(bufio.NewReader(src))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", table, err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("missing column %s in %s", col, table)
		}
	}

	row := &csvRow{table: table, index: index, line: 1}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", table, err)
		}
		row.line++
		if row.line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("reading %s: %w", table, err)
			}
		}
		row.fields = fields
		if err := fn(row); err != nil {
			return err
		}
	}
}

func readRatings(ctx context.Context, src io.Reader) ([]biz.Rating, error) {
	var ratings []biz.Rating
	err := readTable(ctx, src, "ratings", []string{"userId", "movieId", "rating"}, func(row *csvRow) error {
		userID, err := row.integer("userId")
		if err != nil {
			return err
		}
		movieID, err := row.integer("movieId")
		if err != nil {
			return err
		}
		raw := strings.TrimSpace(row.str("rating"))
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || !validRating(value) {
			return fmt.Errorf("ratings line %d: invalid rating %q", row.line, raw)
		}
		ts, err := row.optionalInt64("timestamp")
		if err != nil {
			return err
		}
		ratings = append(ratings, biz.Rating{UserID: userID, MovieID: movieID, Rating: value, Timestamp: ts})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// validRating accepts 0.5 to 5.0 in half-point steps.
func validRating(v float64) bool {
	if v < 0.5 || v > 5.0 {
		return false
	}
	return math.Mod(v*2, 1) == 0
}

func readTags(ctx context.Context, src io.Reader) ([]biz.Tag, error) {
	var tags []biz.Tag
	err := readTable(ctx, src, "tags", []string{"userId", "movieId", "tag"}, func(row *csvRow) error {
		userID, err := row.integer("userId")
		if err != nil {
			return err
		}
		movieID, err := row.integer("movieId")
		if err != nil {
			return err
		}
		ts, err := row.optionalInt64("timestamp")
		if err != nil {
			return err
		}
		tags = append(tags, biz.Tag{
			UserID:    userID,
			MovieID:   movieID,
			Tag:       strings.TrimSpace(row.str("tag")),
			Timestamp: ts,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func readMovies(ctx context.Context, src io.Reader) ([]biz.Movie, error) {
	var movies []biz.Movie
	err := readTable(ctx, src, "movies", []string{"movieId", "title"}, func(row *csvRow) error {
		movieID, err := row.integer("movieId")
		if err != nil {
			return err
		}
		movies = append(movies, biz.Movie{
			MovieID: movieID,
			Title:   strings.TrimSpace(row.str("title")),
			Genres:  strings.TrimSpace(row.str("genres")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}
