package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sentryerrors "github.com/dhirendraxd/CyberSentry-sub000/pkg/errors"
)

func TestRegistry_AddAndGet(t *testing.T) {
	registry := NewRegistry(NewMemoryStore(), 4, nil)

	added, err := registry.Add("  SIEM  ", " https://siem.example.com/ingest ", "key-1")
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "SIEM", added.Name)
	assert.Equal(t, "https://siem.example.com/ingest", added.Endpoint)
	assert.True(t, added.IsActive)
	assert.Nil(t, added.LastTestedAt)

	got, err := registry.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry(NewMemoryStore(), 4, nil)
	_, err := registry.Get("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentryerrors.ErrIntegrationNotFound)
}

// TestRegistry_ActiveCap tests that the fifth active integration is rejected
// TestRegistry_ActiveCap 测试第五个激活的集成被拒绝
func TestRegistry_ActiveCap(t *testing.T) {
	registry := NewRegistry(NewMemoryStore(), 4, nil)

	for i := 0; i < 4; i++ {
		_, err := registry.Add(fmt.Sprintf("sink-%d", i), "https://example.com", "k")
		require.NoError(t, err)
	}

	_, err := registry.Add("one-too-many", "https://example.com", "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentryerrors.ErrIntegrationLimit)
}

func TestRegistry_CapCountsOnlyActive(t *testing.T) {
	store := NewMemoryStore()
	registry := NewRegistry(store, 4, nil)

	for i := 0; i < 4; i++ {
		_, err := registry.Add(fmt.Sprintf("sink-%d", i), "https://example.com", "k")
		require.NoError(t, err)
	}

	// Deactivate one; a new slot opens up.
	all, err := registry.List()
	require.NoError(t, err)
	first := all[0]
	first.IsActive = false
	require.NoError(t, store.Put(first))

	_, err = registry.Add("replacement", "https://example.com", "k")
	assert.NoError(t, err)
}

func TestRegistry_Delete(t *testing.T) {
	registry := NewRegistry(NewMemoryStore(), 4, nil)
	added, err := registry.Add("short-lived", "https://example.com", "k")
	require.NoError(t, err)

	require.NoError(t, registry.Delete(added.ID))

	_, err = registry.Get(added.ID)
	assert.ErrorIs(t, err, sentryerrors.ErrIntegrationNotFound)

	err = registry.Delete(added.ID)
	assert.ErrorIs(t, err, sentryerrors.ErrIntegrationNotFound)
}

func TestRegistry_TestProbeSuccess(t *testing.T) {
	var method, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	registry := NewRegistry(NewMemoryStore(), 4, nil)
	added, err := registry.Add("probe-me", server.URL, "probe-key")
	require.NoError(t, err)

	tested, err := registry.Test(context.Background(), added.ID)
	require.NoError(t, err)

	assert.Equal(t, http.MethodOptions, method)
	assert.Equal(t, "Bearer probe-key", auth)
	assert.True(t, tested.IsActive)
	require.NotNil(t, tested.LastTestedAt)
}

// TestRegistry_TestProbeFailure tests that an unreachable endpoint
// deactivates the integration but keeps the record.
func TestRegistry_TestProbeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	registry := NewRegistry(NewMemoryStore(), 4, nil)
	added, err := registry.Add("flaky", server.URL, "bad-key")
	require.NoError(t, err)

	tested, err := registry.Test(context.Background(), added.ID)
	require.NoError(t, err)
	assert.False(t, tested.IsActive)

	// Record is retained for inspection.
	got, err := registry.Get(added.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestMemoryStore_PreservesInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Put(SinkIntegration{ID: fmt.Sprintf("id-%d", i)}))
	}

	all, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, item := range all {
		assert.Equal(t, fmt.Sprintf("id-%d", i), item.ID)
	}
}

func TestYAMLStore_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/integrations.yaml"
	store := NewYAMLStore(path)

	// Missing file reads as empty.
	all, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.Put(SinkIntegration{ID: "a", Name: "Alpha", Endpoint: "https://a.example.com", APIKey: "ka", IsActive: true}))
	require.NoError(t, store.Put(SinkIntegration{ID: "b", Name: "Beta", Endpoint: "https://b.example.com", APIKey: "kb"}))

	// Put with an existing id updates in place.
	require.NoError(t, store.Put(SinkIntegration{ID: "a", Name: "Alpha v2", Endpoint: "https://a.example.com", APIKey: "ka", IsActive: false}))

	reopened := NewYAMLStore(path)
	all, err = reopened.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha v2", all[0].Name)
	assert.False(t, all[0].IsActive)
	assert.Equal(t, "b", all[1].ID)

	require.NoError(t, reopened.Delete("a"))
	all, err = reopened.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
}
