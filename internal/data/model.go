package data

import (
	"strings"

	"moviediscovery/internal/biz"
)

// Movie represents the movies table
type Movie struct {
	MovieID int    `gorm:"primaryKey;autoIncrement:false"`
	Title   string `gorm:"not null;size:512"`
	Genres  string `gorm:"not null;default:'';size:512"`
}

// TableName overrides the table name
func (Movie) TableName() string {
	return "movies"
}

// Rating represents the ratings table
type Rating struct {
	ID        uint    `gorm:"primaryKey"`
	UserID    int     `gorm:"not null;index:idx_ratings_user_movie,priority:1"`
	MovieID   int     `gorm:"not null;index:idx_ratings_movie_id;index:idx_ratings_user_movie,priority:2"`
	Rating    float64 `gorm:"not null;check:rating >= 0.5 AND rating <= 5.0"`
	Timestamp int64
}

// TableName overrides the table name
func (Rating) TableName() string {
	return "ratings"
}

// Tag represents the tags table. A NULL tag is treated as absent.
type Tag struct {
	ID        uint    `gorm:"primaryKey"`
	UserID    int     `gorm:"not null"`
	MovieID   int     `gorm:"not null;index:idx_tags_movie_id"`
	Tag       *string `gorm:"size:512"`
	Timestamp int64
}

// TableName overrides the table name
func (Tag) TableName() string {
	return "tags"
}

func (m *Movie) toBiz() biz.Movie {
	return biz.Movie{MovieID: m.MovieID, Title: m.Title, Genres: m.Genres}
}

func (r *Rating) toBiz() biz.Rating {
	return biz.Rating{UserID: r.UserID, MovieID: r.MovieID, Rating: r.Rating, Timestamp: r.Timestamp}
}

func (t *Tag) toBiz() biz.Tag {
	tag := biz.Tag{UserID: t.UserID, MovieID: t.MovieID, Timestamp: t.Timestamp}
	if t.Tag != nil {
		tag.Tag = strings.TrimSpace(*t.Tag)
	}
	return tag
}

func movieFromBiz(m biz.Movie) Movie {
	return Movie{MovieID: m.MovieID, Title: m.Title, Genres: m.Genres}
}

func ratingFromBiz(r biz.Rating) Rating {
	return Rating{UserID: r.UserID, MovieID: r.MovieID, Rating: r.Rating, Timestamp: r.Timestamp}
}

func tagFromBiz(t biz.Tag) Tag {
	tag := Tag{UserID: t.UserID, MovieID: t.MovieID, Timestamp: t.Timestamp}
	if t.Tag != "" {
		value := t.Tag
		tag.Tag = &value
	}
	return tag
}
