// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"
)

// State backends.
const (
	StateCookie   = "cookie"
	StateMemory   = "memory"
	StatePostgres = "postgres"
)

// Config is the process configuration.
type Config struct {
	Addr       string
	WebDir     string
	BackendURL string

	StateBackend string
	DatabaseURL  string
	StateTTL     time.Duration

	HashKey  []byte
	BlockKey []byte
	// OldKeys holds hash/block key pairs derived from SESSION_SECRET_OLD,
	// flattened in order. Cookies sealed with them are still accepted.
	OldKeys      [][]byte
	CookieSecure bool

	RequestTimeout time.Duration
	Offline        bool
	LegacyKeys     bool
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Addr:         env("ADDR", ":8080"),
		WebDir:       env("WEB_DIR", "web"),
		BackendURL:   strings.TrimRight(env("BACKEND_URL", "http://localhost:5000"), "/"),
		StateBackend: strings.ToLower(env("STATE_BACKEND", StateCookie)),
		DatabaseURL:  env("DATABASE_URL", ""),
	}

	var err error
	if cfg.RequestTimeout, err = duration(env("REQUEST_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if cfg.StateTTL, err = duration(env("STATE_TTL", "720h")); err != nil {
		return nil, fmt.Errorf("STATE_TTL: %w", err)
	}
	if cfg.CookieSecure, err = strconv.ParseBool(env("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
	}
	if cfg.Offline, err = strconv.ParseBool(env("OFFLINE_MODE", "false")); err != nil {
		return nil, fmt.Errorf("OFFLINE_MODE: %w", err)
	}
	if cfg.LegacyKeys, err = strconv.ParseBool(env("SESSION_LEGACY_KEYS", "false")); err != nil {
		return nil, fmt.Errorf("SESSION_LEGACY_KEYS: %w", err)
	}

	switch cfg.StateBackend {
	case StateCookie, StateMemory:
	case StatePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when STATE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("STATE_BACKEND: unknown backend %q", cfg.StateBackend)
	}

	if secret := getenv("SESSION_SECRET"); secret != "" {
		if cfg.HashKey, cfg.BlockKey, err = DeriveKeys(secret); err != nil {
			return nil, err
		}
	} else {
		log.Printf("config: SESSION_SECRET not set, sessions will not survive a restart")
		cfg.HashKey = securecookie.GenerateRandomKey(32)
		cfg.BlockKey = securecookie.GenerateRandomKey(32)
		if cfg.HashKey == nil || cfg.BlockKey == nil {
			return nil, errors.New("generate session keys")
		}
	}
	for _, old := range strings.Split(getenv("SESSION_SECRET_OLD"), ",") {
		if old = strings.TrimSpace(old); old == "" {
			continue
		}
		h, b, err := DeriveKeys(old)
		if err != nil {
			return nil, err
		}
		cfg.OldKeys = append(cfg.OldKeys, h, b)
	}
	return cfg, nil
}

func duration(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", v)
	}
	return d, nil
}

// DeriveKeys expands secret into a 32-byte cookie hash key and a 32-byte
// AES-256 block key.
func DeriveKeys(secret string) (hashKey, blockKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("healthweb session cookie"))
	hashKey = make([]byte, 32)
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive hash key: %w", err)
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive block key: %w", err)
	}
	return hashKey, blockKey, nil
}
