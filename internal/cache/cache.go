package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/store"
)

// Fingerprint derives the cache key for one provider request. Arguments are
// canonicalized through a map round-trip so key order in the incoming JSON
// does not change the key.
func Fingerprint(tool, argsJSON string) (string, error) {
	if argsJSON == "" {
		argsJSON = "{}"
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(tool + "\n" + string(canonical)))
	return hex.EncodeToString(sum[:]), nil
}

// Cache layers a process-local TTL cache over the durable provider_cache
// table. Reads prefer memory and fall back to SQLite; storage errors count
// as misses. A non-positive TTL disables caching entirely.
type Cache struct {
	mem *gocache.Cache
	db  *store.DB
	ttl time.Duration
}

func New(db *store.DB, ttl time.Duration) *Cache {
	return &Cache{
		mem: gocache.New(ttl, 10*time.Minute),
		db:  db,
		ttl: ttl,
	}
}

// Get returns the cached payload for a request, if one is still fresh.
func (c *Cache) Get(ctx context.Context, tool, argsJSON string) (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}
	key, err := Fingerprint(tool, argsJSON)
	if err != nil {
		return "", false
	}
	if v, found := c.mem.Get(key); found {
		return v.(string), true
	}
	entry, err := c.db.GetCacheEntry(ctx, key)
	if err != nil {
		log.Printf("[CACHE] read failed, treating as miss: %v", err)
		return "", false
	}
	if entry == nil {
		return "", false
	}
	age := time.Since(time.Unix(entry.CreatedAt, 0))
	if age >= c.ttl {
		return "", false
	}
	c.mem.Set(key, entry.Payload, c.ttl-age)
	return entry.Payload, true
}

// Put stores a successful provider response in both layers. Storage failures
// are logged and the in-memory copy still serves until the process exits.
func (c *Cache) Put(ctx context.Context, tool, argsJSON, payload string) {
	if c.ttl <= 0 {
		return
	}
	key, err := Fingerprint(tool, argsJSON)
	if err != nil {
		return
	}
	c.mem.Set(key, payload, gocache.DefaultExpiration)
	if err := c.db.PutCacheEntry(ctx, key, payload, time.Now().Unix()); err != nil {
		log.Printf("[CACHE] write failed: %v", err)
	}
}

// PurgeExpired drops durable entries older than the TTL.
func (c *Cache) PurgeExpired(ctx context.Context) {
	if c.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-c.ttl).Unix()
	n, err := c.db.PurgeExpiredCache(ctx, cutoff)
	if err != nil {
		log.Printf("[CACHE] purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[CACHE] purged %d expired entries", n)
	}
}
