package validator

import (
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of struct types a Resolver remembers.
const DefaultCacheSize = 256

// Resolver resolves struct types and memoizes the result per type.
// Resolved rule maps are shared between callers and must not be modified.
type Resolver struct {
	cache *lru.Cache[reflect.Type, resolved]
}

type resolved struct {
	policy *Policy
	rules  RuleMap
}

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	size int
}

// WithCacheSize sets how many struct types are kept. Non-positive values are ignored.
func WithCacheSize(n int) ResolverOption {
	return func(c *resolverConfig) {
		if n > 0 {
			c.size = n
		}
	}
}

// NewResolver creates a resolver holding up to DefaultCacheSize struct types
// unless WithCacheSize says otherwise. Least recently used types are evicted.
func NewResolver(opts ...ResolverOption) *Resolver {
	cfg := &resolverConfig{size: DefaultCacheSize}
	for _, opt := range opts {
		opt(cfg)
	}
	// size is always positive, the only case lru.New rejects
	cache, _ := lru.New[reflect.Type, resolved](cfg.size)
	return &Resolver{cache: cache}
}

// Struct resolves the struct type of v (value, pointer or reflect.Type).
// See StructShape for the tag syntax and ResolveShape for the result.
func (r *Resolver) Struct(v any) (*Policy, RuleMap, error) {
	t, err := structType(v)
	if err != nil {
		return nil, nil, err
	}
	if res, ok := r.cache.Get(t); ok {
		return copyPolicy(res.policy), res.rules, nil
	}

	shape, err := StructShape(t)
	if err != nil {
		return nil, nil, err
	}
	policy, rules := ResolveShape(shape)
	r.cache.Add(t, resolved{policy: policy, rules: rules})
	return copyPolicy(policy), rules, nil
}

func copyPolicy(p *Policy) *Policy {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Len reports the number of cached types.
func (r *Resolver) Len() int {
	return r.cache.Len()
}

// Reset drops every cached type.
func (r *Resolver) Reset() {
	r.cache.Purge()
}
