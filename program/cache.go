package program

import (
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"lukechampine.com/blake3"
)

// DefaultCacheSize is the number of parsed programs kept by NewCache(0).
const DefaultCacheSize = 64

// Digest identifies a program source text.
type Digest [32]byte

// Sum returns the digest of the given source text.
func Sum(text string) Digest {
	return blake3.Sum256([]byte(text))
}

func (d Digest) String() string { return fmt.Sprintf("%x", d[:8]) }

// Cache keeps recently parsed programs, keyed by the digest of their text.
// Drivers instantiate many machines from the same source, the cache spares
// them a parse per instance. Safe for concurrent use.
type Cache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[Digest, Program]

	hits, misses int
}

// NewCache returns a cache holding up to size programs.
// A size <= 0 uses DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	lru, err := simplelru.NewLRU[Digest, Program](size, nil)
	if err != nil {
		// Only fails for non-positive sizes.
		panic(err)
	}
	return &Cache{lru: lru}
}

// Parse returns the parsed program for text, parsing it on a miss.
// The returned program is a copy the caller may modify.
func (c *Cache) Parse(text string) (Program, error) {
	d := Sum(text)

	c.mu.Lock()
	p, ok := c.lru.Get(d)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	if ok {
		return p.Clone(), nil
	}

	p, err := Parse(text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Add(d, p)
	c.mu.Unlock()
	return p.Clone(), nil
}

// Load reads the file at path and parses it through the cache.
func (c *Cache) Load(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	p, err := c.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return p, nil
}

// Stats returns the number of hits and misses since creation.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Digest returns the digest of the canonical text of p.
func (p Program) Digest() Digest { return Sum(p.String()) }
