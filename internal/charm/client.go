// ABOUTME: Charm KV client wrapper for cloud-synced corpus snapshots
// ABOUTME: One explicitly opened KV database per client, SSH key auth via charm
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

// Key prefixes for the entities stored in KV
const (
	CoursePrefix   = "course:"
	ManifestPrefix = "corpus:manifest:"
)

// ErrKeyNotFound is returned by GetJSON for absent keys
var ErrKeyNotFound = errors.New("key not found")

// Store is the subset of charm KV the client needs
type Store interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Close() error
}

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// Defaults for an empty Config. DefaultHost is the server of the charm fork
// this module builds against.
const (
	DefaultHost   = "charm.2389.dev"
	DefaultDBName = "courserec"
)

// withDefaults fills an empty host from CHARM_HOST, then DefaultHost, and an
// empty database name with DefaultDBName
func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = os.Getenv("CHARM_HOST")
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.DBName == "" {
		c.DBName = DefaultDBName
	}
	return c
}

// Client wraps a charm KV store
type Client struct {
	store  Store
	config *Config
	mu     sync.Mutex
}

// NewClient opens the charm KV database named in cfg and pulls remote data
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	resolved := cfg.withDefaults()
	cfg = &resolved
	if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
		return nil, fmt.Errorf("failed to set CHARM_HOST: %w", err)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := NewWithStore(db, cfg)
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return c, nil
}

// NewWithStore wraps an already opened store
func NewWithStore(store Store, cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Client{store: store, config: cfg}
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// syncIfEnabled syncs to cloud after writes
func (c *Client) syncIfEnabled() error {
	if c.config.AutoSync {
		return c.store.Sync()
	}
	return nil
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// AuthorizedKeys returns the linked devices/keys of the account
func (c *Client) AuthorizedKeys() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.AuthorizedKeys()
}

// set stores a value without syncing. Callers hold mu.
func (c *Client) set(key string, value []byte) error {
	if err := c.store.Set([]byte(key), value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (c *Client) setJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.set(key, data)
}

func (c *Client) getJSON(key string, dest any) error {
	data, err := c.store.Get([]byte(key))
	if err != nil {
		return fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if data == nil {
		return fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}
	return json.Unmarshal(data, dest)
}

func (c *Client) listKeys(prefix string) ([]string, error) {
	keys, err := c.store.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		if k := string(key); strings.HasPrefix(k, prefix) {
			result = append(result, k)
		}
	}
	sort.Strings(result)
	return result, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Sync()
}

// CourseKey is the key of one course entry of model
func CourseKey(model, code string) string {
	return CoursePrefix + model + ":" + code
}

// ManifestKey is the key of the ordered code list of model
func ManifestKey(model string) string {
	return ManifestPrefix + model
}
