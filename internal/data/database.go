package data

import (
	"context"
	"fmt"

	"moviediscovery/internal/biz"

	"gorm.io/gorm"
)

const batchSize = 5000

// loadDatabaseTables reads the ratings, tags and movies tables in batches.
func loadDatabaseTables(ctx context.Context, db *gorm.DB) (*biz.Tables, error) {
	var tables biz.Tables

	var movies []Movie
	err := db.WithContext(ctx).FindInBatches(&movies, batchSize, func(tx *gorm.DB, batch int) error {
		for i := range movies {
			tables.Movies = append(tables.Movies, movies[i].toBiz())
		}
		return nil
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	var ratings []Rating
	err = db.WithContext(ctx).FindInBatches(&ratings, batchSize, func(tx *gorm.DB, batch int) error {
		for i := range ratings {
			tables.Ratings = append(tables.Ratings, ratings[i].toBiz())
		}
		return nil
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	var tags []Tag
	err = db.WithContext(ctx).FindInBatches(&tags, batchSize, func(tx *gorm.DB, batch int) error {
		for i := range tags {
			tables.Tags = append(tables.Tags, tags[i].toBiz())
		}
		return nil
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	return &tables, nil
}

// importTables writes tables into the database in one transaction.
func importTables(ctx context.Context, db *gorm.DB, tables *biz.Tables) error {
	movies := make([]Movie, 0, len(tables.Movies))
	for _, m := range tables.Movies {
		movies = append(movies, movieFromBiz(m))
	}
	ratings := make([]Rating, 0, len(tables.Ratings))
	for _, r := range tables.Ratings {
		ratings = append(ratings, ratingFromBiz(r))
	}
	tags := make([]Tag, 0, len(tables.Tags))
	for _, t := range tables.Tags {
		tags = append(tags, tagFromBiz(t))
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(movies) > 0 {
			if err := tx.CreateInBatches(&movies, 1000).Error; err != nil {
				return fmt.Errorf("failed to import movies: %w", err)
			}
		}
		if len(ratings) > 0 {
			if err := tx.CreateInBatches(&ratings, 1000).Error; err != nil {
				return fmt.Errorf("failed to import ratings: %w", err)
			}
		}
		if len(tags) > 0 {
			if err := tx.CreateInBatches(&tags, 1000).Error; err != nil {
				return fmt.Errorf("failed to import tags: %w", err)
			}
		}
		return nil
	})
}
