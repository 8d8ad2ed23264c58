package data

import (
	"context"
	"fmt"
	"time"

	"moviediscovery/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewTableRepo,
	NewSummaryCache,
)

// Data encapsulates database and cache connections. Both are optional: db is nil
// unless a database is configured, rdb is nil when redis is disabled or unreachable.
type Data struct {
	db  *gorm.DB
	rdb *redis.Client
	log *log.Helper
}

// NewData creates Data instance with database and Redis connections
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)
	if c == nil {
		c = &conf.Data{}
	}

	data := &Data{log: l}

	if c.Database != nil && c.Database.Source != "" {
		db, err := openDatabase(c.Database)
		if err != nil {
			l.Errorf("failed to connect to database: %v", err)
			return nil, nil, err
		}
		if c.Database.AutoMigrate {
			if err := db.AutoMigrate(&Movie{}, &Rating{}, &Tag{}); err != nil {
				l.Errorf("failed to migrate database: %v", err)
				return nil, nil, err
			}
		}
		data.db = db
		l.Infof("database connected successfully (driver=%s)", c.Database.Driver)
	}

	if c.Redis != nil && c.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         c.Redis.Addr,
			ReadTimeout:  c.Redis.ReadTimeout.AsDuration(),
			WriteTimeout: c.Redis.WriteTimeout.AsDuration(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			// Redis only memoizes query results, continue without it
			l.Warnf("failed to connect to redis: %v", err)
			_ = rdb.Close()
		} else {
			data.rdb = rdb
			l.Info("redis connected successfully")
		}
	}

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		if data.db != nil {
			if sqlDB, err := data.db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					l.Errorf("failed to close database: %v", err)
				}
			}
		}
	}

	return data, cleanup, nil
}

func openDatabase(c *conf.Data_Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case "", "postgres":
		dialector = postgres.Open(c.Source)
	case "sqlite":
		dialector = sqlite.Open(c.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
