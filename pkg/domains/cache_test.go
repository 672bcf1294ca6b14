package domains

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oriolvn/serptrack/pkg/storage"
)

type fakeSource struct {
	rows  map[string]storage.DomainRow
	calls int
}

func (f *fakeSource) GetDomain(_ context.Context, domain string) (storage.DomainRow, error) {
	f.calls++
	row, ok := f.rows[domain]
	if !ok {
		return storage.DomainRow{}, sql.ErrNoRows
	}
	return row, nil
}

func TestPolicyCache_Get(t *testing.T) {
	source := &fakeSource{rows: map[string]storage.DomainRow{
		"example.com": {Domain: "example.com", Competitors: `["c1.com","c2.com"]`, AutoManageTop20: true},
	}}
	cache := NewPolicyCache(source)

	policy, err := cache.Get(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1.com", "c2.com"}, policy.Competitors)
	assert.True(t, policy.AutoManageTop20)

	_, err = cache.Get(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls, "second lookup must come from the cache")
}

func TestPolicyCache_UnknownDomainIsEmptyPolicy(t *testing.T) {
	source := &fakeSource{rows: map[string]storage.DomainRow{}}
	cache := NewPolicyCache(source)

	policy, err := cache.Get(context.Background(), "missing.com")
	require.NoError(t, err)
	assert.Empty(t, policy.Competitors)
	assert.False(t, policy.AutoManageTop20)

	// Negative answers are cached too.
	_, err = cache.Get(context.Background(), "missing.com")
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestPolicyCache_EmptyDomain(t *testing.T) {
	source := &fakeSource{}
	cache := NewPolicyCache(source)

	policy, err := cache.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Policy{}, policy)
	assert.Zero(t, source.calls)
}

func TestPolicyCache_Invalidate(t *testing.T) {
	source := &fakeSource{rows: map[string]storage.DomainRow{
		"example.com": {Domain: "example.com", Competitors: `["c1.com"]`},
		"other.com":   {Domain: "other.com"},
	}}
	cache := NewPolicyCache(source)

	_, err := cache.Get(context.Background(), "example.com")
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "other.com")
	require.NoError(t, err)

	cache.Invalidate("example.com")
	_, err = cache.Get(context.Background(), "example.com")
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "other.com")
	require.NoError(t, err)
	assert.Equal(t, 3, source.calls, "only the invalidated domain refetches")

	cache.InvalidateAll()
	_, err = cache.Get(context.Background(), "other.com")
	require.NoError(t, err)
	assert.Equal(t, 4, source.calls)
}
