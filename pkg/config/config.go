// Package config loads depviz settings.
//
// Settings come from four layers, highest precedence first:
//
//  1. command-line flags (applied by the CLI after [Load])
//  2. DEPVIZ_* environment variables, including those from a .env file in
//     the working directory
//  3. a TOML file, $XDG_CONFIG_HOME/depviz/config.toml by default
//  4. built-in defaults ([Default])
//
// A config file looks like:
//
//	mode = "online"
//	repo = "https://dl-cdn.alpinelinux.org/alpine/v3.20/main/x86_64/"
//	renderer = "exec"
//
//	[cache]
//	ttl = "12h"
//	redis_addr = "localhost:6379"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/depviz/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "depviz"

// Config holds every setting that is not specific to a single run.
type Config struct {
	// Mode is the default repository mode: online, offline or test.
	Mode string `toml:"mode"`

	// Repo is the default repository URL or path.
	Repo string `toml:"repo"`

	// Renderer selects the image backend: exec, graphviz or none.
	Renderer string `toml:"renderer"`

	// Dot is the Graphviz executable used by the exec renderer.
	Dot string `toml:"dot"`

	// ResolveProvides maps so:/cmd:/pc: dependency tokens of an APKINDEX to
	// the packages that provide them.
	ResolveProvides bool `toml:"resolve_provides"`

	// Workers bounds concurrent builds in depviz batch.
	Workers int `toml:"workers"`

	// Listen is the address depviz serve binds to.
	Listen string `toml:"listen"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig configures where downloads and rendered images are kept.
type CacheConfig struct {
	// Dir is the file cache directory.
	Dir string `toml:"dir"`

	// TTL is how long a downloaded index stays fresh.
	TTL Duration `toml:"ttl"`

	// RedisAddr switches the cache to Redis when set.
	RedisAddr string `toml:"redis_addr"`
}

// Duration is a time.Duration written as a string such as "90m" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Renderer:        "exec",
		Dot:             "dot",
		ResolveProvides: true,
		Workers:         4,
		Listen:          ":8080",
		Cache: CacheConfig{
			Dir: DefaultCacheDir(),
			TTL: Duration{24 * time.Hour},
		},
	}
}

// Load reads .env, the config file at path and the environment, in that
// order of increasing precedence. An empty path means [DefaultPath], which
// may be absent; an explicit path must exist. Unknown keys in the file are
// rejected so that typos do not go unnoticed.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read .env")
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, mustExist bool) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if !mustExist && stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides fields from DEPVIZ_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	str("DEPVIZ_MODE", &c.Mode)
	str("DEPVIZ_REPO", &c.Repo)
	str("DEPVIZ_RENDERER", &c.Renderer)
	str("DEPVIZ_DOT", &c.Dot)
	str("DEPVIZ_LISTEN", &c.Listen)
	str("DEPVIZ_CACHE_DIR", &c.Cache.Dir)
	str("DEPVIZ_REDIS_ADDR", &c.Cache.RedisAddr)

	if v, ok := lookup("DEPVIZ_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return errors.New(errors.ErrCodeInvalidInput, "DEPVIZ_WORKERS must be a positive integer, got %q", v)
		}
		c.Workers = n
	}
	if v, ok := lookup("DEPVIZ_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "DEPVIZ_CACHE_TTL")
		}
		c.Cache.TTL = Duration{d}
	}
	if v, ok := lookup("DEPVIZ_RESOLVE_PROVIDES"); ok && v != "" {
		b, err := errors.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "DEPVIZ_RESOLVE_PROVIDES")
		}
		c.ResolveProvides = b
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/depviz/config.toml, falling back to
// ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/depviz, falling back to ~/.cache.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", AppName)
}
