package uploader

import "sync"

// URLCache maps content fingerprints to uploaded URLs so byte-identical
// content is uploaded once. It is owned by the orchestrator, not global
// state, so its lifetime is the orchestrator's.
//
// Two units uploading identical, never-seen content concurrently may
// both miss and both upload; that race is accepted — it yields two
// valid objects, never corrupted state, and same-key writes store
// equivalent values.
type URLCache struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewURLCache() *URLCache {
	return &URLCache{m: make(map[string]string)}
}

func (c *URLCache) Get(hash string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.m[hash]
	return url, ok
}

func (c *URLCache) Set(hash, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[hash] = url
}
