package layout

type cacheKey struct {
	Name     string
	Strategy Strategy
}

// cache memoises nested struct results for the duration of one query.
type cache struct {
	byKey map[cacheKey]Result
}

func newCache() *cache {
	return &cache{byKey: make(map[cacheKey]Result, 16)}
}

func (c *cache) get(name string, s Strategy) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	r, ok := c.byKey[cacheKey{Name: name, Strategy: s}]
	return r, ok
}

func (c *cache) put(name string, s Strategy, r Result) {
	if c == nil {
		return
	}
	c.byKey[cacheKey{Name: name, Strategy: s}] = r
}
