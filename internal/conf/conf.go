// Package conf holds the configuration tree scanned from configs/config.yaml.
package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

type Bootstrap struct {
	Server    *Server    `json:"server"`
	Data      *Data      `json:"data"`
	Discovery *Discovery `json:"discovery"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Data struct {
	Source   *Data_Source   `json:"source"`
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

// Data_Source selects where the rating, tag and movie tables are loaded from.
type Data_Source struct {
	// Kind is "csv" or "database".
	Kind         string `json:"kind"`
	Dir          string `json:"dir"`
	Ratings      string `json:"ratings"`
	Tags         string `json:"tags"`
	Movies       string `json:"movies"`
	TagsEncoding string `json:"tags_encoding"`
}

type Data_Database struct {
	// Driver is "postgres" or "sqlite".
	Driver      string `json:"driver"`
	Source      string `json:"source"`
	AutoMigrate bool   `json:"auto_migrate"`
}

type Data_Redis struct {
	Addr         string    `json:"addr"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
	Ttl          *Duration `json:"ttl"`
}

type Discovery struct {
	DefaultLimit       int32 `json:"default_limit"`
	MaxLimit           int32 `json:"max_limit"`
	TagVocabularyLimit int32 `json:"tag_vocabulary_limit"`
}

// Duration is a time.Duration read from either a Go duration string ("1.5s")
// or a number of seconds.
type Duration struct {
	time.Duration
}

// AsDuration returns the wrapped duration; a nil Duration is zero.
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}
