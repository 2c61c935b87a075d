package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/hupe1980/kikgo/blobstore"
	minioblob "github.com/hupe1980/kikgo/blobstore/minio"
	s3blob "github.com/hupe1980/kikgo/blobstore/s3"
	"github.com/hupe1980/kikgo/chunkstore"
	"github.com/hupe1980/kikgo/codec"
	"github.com/hupe1980/kikgo/ndarray"
	"github.com/hupe1980/kikgo/resource"
)

// Config holds the resolved settings from flags, environment and config file.
type Config struct {
	Store       string `mapstructure:"store"`
	StorePath   string `mapstructure:"store-path"`
	Bucket      string `mapstructure:"bucket"`
	Prefix      string `mapstructure:"prefix"`
	Endpoint    string `mapstructure:"endpoint"`
	Region      string `mapstructure:"region"`
	AccessKey   string `mapstructure:"access-key"`
	SecretKey   string `mapstructure:"secret-key"`
	Secure      bool   `mapstructure:"secure"`
	Compression string `mapstructure:"compression"`
	Codec       string `mapstructure:"manifest-codec"`
	ChunkElems  int    `mapstructure:"chunk-elems"`
	CacheSize   int    `mapstructure:"cache-size"`
	LogLevel    string `mapstructure:"log-level"`
	LogFormat   string `mapstructure:"log-format"`
	Workers     int64  `mapstructure:"workers"`
	MemoryLimit int64  `mapstructure:"memory-limit"`
	IOLimit     int64  `mapstructure:"io-limit"`
}

const envPrefix = "KIKGO"

const (
	storeLocal = "local"
	storeS3    = "s3"
	storeMinio = "minio"
)

func (c *Config) validate() error {
	switch c.Store {
	case storeLocal:
		if c.StorePath == "" {
			return fmt.Errorf("--store-path is required for the local store")
		}
	case storeS3, storeMinio:
		if c.Bucket == "" {
			return fmt.Errorf("--bucket is required for the %s store", c.Store)
		}
		if c.Store == storeMinio && c.Endpoint == "" {
			return fmt.Errorf("--endpoint is required for the minio store")
		}
	default:
		return fmt.Errorf("unknown store %q: use local, s3 or minio", c.Store)
	}

	if _, err := chunkstore.ParseCompression(c.Compression); err != nil {
		return err
	}
	if _, err := codec.ByName(c.Codec); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q: use text or json", c.LogFormat)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c *Config) resources() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.MemoryLimit,
		MaxWorkers:         c.Workers,
		IOLimitBytesPerSec: c.IOLimit,
	})
}

func (c *Config) blobStore(ctx context.Context) (blobstore.BlobStore, error) {
	switch c.Store {
	case storeS3:
		opts := []s3blob.Option{s3blob.WithPrefix(c.Prefix)}
		if c.Region != "" {
			opts = append(opts, s3blob.WithRegion(c.Region))
		}
		if c.Endpoint != "" {
			opts = append(opts, s3blob.WithEndpoint(c.Endpoint))
		}
		return s3blob.New(ctx, c.Bucket, opts...)
	case storeMinio:
		return minioblob.New(ctx, c.Endpoint, c.AccessKey, c.SecretKey, c.Secure, c.Bucket, c.Prefix)
	default:
		return blobstore.NewLocalStore(c.StorePath), nil
	}
}

// requiredString returns the value of key, which may come from a flag, the
// environment or the config file.
func requiredString(v *viper.Viper, key string) (string, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return "", fmt.Errorf("%q is required: set --%s, %s or %q in the config file", key, key, envName(key), key)
	}
	return s, nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// parseShape parses a comma separated list of dimensions such as "100,60,60".
func parseShape(s string) (ndarray.Shape, error) {
	s = strings.Trim(strings.TrimSpace(s), "()[]")
	if s == "" {
		return nil, fmt.Errorf("empty shape")
	}

	parts := strings.Split(s, ",")
	shape := make(ndarray.Shape, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid dimension %q in shape %q", p, s)
		}
		shape = append(shape, d)
	}
	return shape, nil
}
