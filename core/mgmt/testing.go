package mgmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func CreateMemoryDialer(t *testing.T) *MemoryDialer {
	d := NewMemoryDialer()
	t.Cleanup(func() {
		require.NoError(t, d.Close())
	})
	return d
}

// CreateTestRegistry builds an object registry holding a Stats component
// for the cache plus a few decoys that must never match a locate for it.
func CreateTestRegistry(t *testing.T, domain, cacheName string, stats any) *ObjectRegistry {
	reg := NewObjectRegistry()
	require.NoError(t, reg.Register(CacheObjectName(domain, cacheName, "Stats"), stats))

	// decoys: wrong domain, wrong type, wrong name, wrong component
	require.NoError(t, reg.Register(CacheObjectName("other.domain", cacheName, "Stats"), stats))
	require.NoError(t, reg.Register(NewObjectName(domain,
		Prop("type", "CacheManager"),
		Prop("name", cacheName),
		Prop("component", "Stats"),
	), stats))
	require.NoError(t, reg.Register(CacheObjectName(domain, "otherCache", "Stats"), stats))
	require.NoError(t, reg.Register(CacheObjectName(domain, cacheName, "Transactions"), stats))

	return reg
}
