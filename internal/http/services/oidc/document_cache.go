package oidc

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// documentCache guarda documentos JSON crudos por nombre. Los fetch
// concurrentes del mismo documento se colapsan en uno solo.
type documentCache struct {
	items *gocache.Cache
	sf    singleflight.Group
	ttl   time.Duration
}

func newDocumentCache(ttl time.Duration) *documentCache {
	// sin janitor: los expirados se ignoran en Get y se pisan en Set
	return &documentCache{items: gocache.New(ttl, 0), ttl: ttl}
}

// get devuelve el documento cacheado o lo trae con fetch. shared indica si
// el resultado vino de otra llamada en curso o del cache.
func (c *documentCache) get(ctx context.Context, name string, fetch func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if v, ok := c.items.Get(name); ok {
		return v.([]byte), true, nil
	}

	result, err, shared := c.sf.Do(name, func() (interface{}, error) {
		doc, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.items.Set(name, doc, c.ttl)
		return doc, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.([]byte), shared, nil
}
