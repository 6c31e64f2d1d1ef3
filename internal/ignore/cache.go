package ignore

import (
	"sync"

	"github.com/cespare/xxhash"
)

// parseCache memoizes parseLines by content hash. Large trees often carry
// many byte-identical .gitignore files (a shared template copied into
// every module, vendored dependency trees, monorepo package boilerplate);
// hashing content with xxhash and caching the parsed ruleTemplate slice
// avoids re-running the line parser once per directory for that common
// case. Keyed on content only (not root), since ruleTemplate carries no
// directory scope — root is attached separately by the caller.
type parseCache struct {
	mu sync.Mutex
	m  map[uint64][]ruleTemplate
}

func newParseCache() *parseCache {
	return &parseCache{m: make(map[uint64][]ruleTemplate)}
}

func (c *parseCache) parse(content []byte) []ruleTemplate {
	h := xxhash.Sum64(content)

	c.mu.Lock()
	if cached, ok := c.m[h]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	templates := parseLines(content)

	c.mu.Lock()
	c.m[h] = templates
	c.mu.Unlock()

	return templates
}
