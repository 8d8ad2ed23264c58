// Command movieimport seeds the configured database with the csv catalog so the
// discovery service can run with data.source.kind set to database.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"moviediscovery/internal/conf"
	"moviediscovery/internal/data"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout), "ts", log.DefaultTimestamp, "caller", log.DefaultCaller)
	if err := run(logger); err != nil {
		log.NewHelper(logger).Fatalf("import failed: %v", err)
	}
}

func run(logger log.Logger) error {
	c := config.New(config.WithSource(file.NewSource(flagconf)))
	defer c.Close()
	if err := c.Load(); err != nil {
		return err
	}
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		return err
	}
	if bc.Data == nil || bc.Data.Source == nil {
		return errors.New("data.source is required")
	}

	d, cleanup, err := data.NewData(bc.Data, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	start := time.Now()
	tables, err := data.ImportCSVTables(context.Background(), d, bc.Data.Source)
	if err != nil {
		return err
	}
	log.NewHelper(logger).Infof("imported %d movies, %d ratings, %d tags in %s",
		len(tables.Movies), len(tables.Ratings), len(tables.Tags), time.Since(start))
	return nil
}
