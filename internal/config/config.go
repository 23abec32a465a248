package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/hpgraph/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "hpgraph.yaml"

// Store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the CLI settings. Precedence: defaults, then the config file,
// then HPGRAPH_* environment variables, then command-line flags.
type Config struct {
	Log     Log    `yaml:"log"`
	Store   Store  `yaml:"store"`
	Server  Server `yaml:"server"`
	Recipes string `yaml:"recipes"`
	Seed    *int64 `yaml:"seed"`
}

// Log configures the application logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Store selects where manifests are recorded.
type Store struct {
	Backend string        `yaml:"backend"`
	Dir     string        `yaml:"dir"`
	Redis   Redis         `yaml:"redis"`
	TTL     time.Duration `yaml:"ttl"`
}

// Redis holds the connection settings of the redis backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Server configures `hpgraph serve` and `hpgraph mcp --transport sse`.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "info", Format: string(logging.FormatText)},
		Store:  Store{Backend: StoreFile, Dir: ".hpgraph/manifests", Redis: Redis{Addr: "localhost:6379"}},
		Server: Server{Host: "", Port: 8080},
	}
}

// Load reads path (or DefaultFile when path is empty) and applies the
// environment. A missing DefaultFile is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"HPGRAPH_LOG_LEVEL":      &c.Log.Level,
		"HPGRAPH_LOG_FORMAT":     &c.Log.Format,
		"HPGRAPH_STORE":          &c.Store.Backend,
		"HPGRAPH_STORE_DIR":      &c.Store.Dir,
		"HPGRAPH_REDIS_ADDR":     &c.Store.Redis.Addr,
		"HPGRAPH_REDIS_PASSWORD": &c.Store.Redis.Password,
		"HPGRAPH_REDIS_PREFIX":   &c.Store.Redis.Prefix,
		"HPGRAPH_HOST":           &c.Server.Host,
		"HPGRAPH_RECIPES":        &c.Recipes,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HPGRAPH_REDIS_DB": &c.Store.Redis.DB,
		"HPGRAPH_PORT":     &c.Server.Port,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("HPGRAPH_MANIFEST_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("HPGRAPH_MANIFEST_TTL: %w", err)
		}
		c.Store.TTL = d
	}
	if v, ok := lookup("HPGRAPH_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HPGRAPH_SEED: %w", err)
		}
		c.Seed = &n
	}
	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	switch c.Store.Backend {
	case StoreNone, StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("negative manifest ttl %s", c.Store.TTL)
	}
	return nil
}
