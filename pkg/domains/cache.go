// Package domains resolves per-domain tracking policy (competitor list and
// the auto-manage-top20 flag) with a cache scoped to the caller's lifecycle.
package domains

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/oriolvn/serptrack/pkg/keyword"
	"github.com/oriolvn/serptrack/pkg/storage"
)

type Policy struct {
	Competitors     []string
	AutoManageTop20 bool
}

// Source is the slice of the store the cache needs.
type Source interface {
	GetDomain(ctx context.Context, domain string) (storage.DomainRow, error)
}

// PolicyCache memoizes domain policy lookups for the duration of a batch run.
// Callers invalidate entries when domain settings change externally.
type PolicyCache struct {
	source   Source
	mu       sync.Mutex
	policies map[string]Policy
}

func NewPolicyCache(source Source) *PolicyCache {
	return &PolicyCache{
		source:   source,
		policies: make(map[string]Policy),
	}
}

// Get resolves the policy for a domain. Unknown domains resolve to the empty
// policy, which is cached like any other answer.
func (c *PolicyCache) Get(ctx context.Context, domain string) (Policy, error) {
	if domain == "" {
		return Policy{}, nil
	}

	c.mu.Lock()
	cached, ok := c.policies[domain]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	row, err := c.source.GetDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.put(domain, Policy{})
			return Policy{}, nil
		}
		return Policy{}, err
	}

	policy := Policy{
		Competitors:     keyword.ParseCompetitorsList(row.Competitors),
		AutoManageTop20: row.AutoManageTop20,
	}
	c.put(domain, policy)
	return policy, nil
}

func (c *PolicyCache) put(domain string, policy Policy) {
	c.mu.Lock()
	c.policies[domain] = policy
	c.mu.Unlock()
}

// Invalidate drops one domain's cached policy.
func (c *PolicyCache) Invalidate(domain string) {
	c.mu.Lock()
	delete(c.policies, domain)
	c.mu.Unlock()
}

// InvalidateAll drops every cached policy.
func (c *PolicyCache) InvalidateAll() {
	c.mu.Lock()
	c.policies = make(map[string]Policy)
	c.mu.Unlock()
}
