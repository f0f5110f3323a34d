package integrations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	sentryerrors "github.com/dhirendraxd/CyberSentry-sub000/pkg/errors"
)

// Registry manages the lifecycle of custom sink integrations on top of an
// injected persistence store. The number of active integrations is capped.
// Registry 在注入的持久化存储之上管理自定义接收端集成的生命周期。
type Registry struct {
	mu        sync.Mutex
	store     Store
	client    *http.Client
	maxActive int
}

// NewRegistry creates a registry over the given store. A zero maxActive
// falls back to 4, matching the product cap. A nil client gets a bounded
// default so a hung endpoint cannot stall a probe forever.
func NewRegistry(store Store, maxActive int, client *http.Client) *Registry {
	if maxActive <= 0 {
		maxActive = 4
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Registry{store: store, client: client, maxActive: maxActive}
}

// List returns all stored integrations, active or not.
func (r *Registry) List() ([]SinkIntegration, error) {
	return r.store.LoadAll()
}

// Get returns the integration with the given id.
func (r *Registry) Get(id string) (SinkIntegration, error) {
	all, err := r.store.LoadAll()
	if err != nil {
		return SinkIntegration{}, err
	}
	for _, item := range all {
		if item.ID == id {
			return item, nil
		}
	}
	return SinkIntegration{}, sentryerrors.NewIntegrationError(id)
}

// Add stores a new integration. It is rejected once the active cap is
// reached. New entries start out active; a failed connectivity test
// deactivates them later.
func (r *Registry) Add(name, endpoint, apiKey string) (SinkIntegration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.store.LoadAll()
	if err != nil {
		return SinkIntegration{}, err
	}
	active := 0
	for _, item := range all {
		if item.IsActive {
			active++
		}
	}
	if active >= r.maxActive {
		return SinkIntegration{}, sentryerrors.ErrIntegrationLimit
	}

	integration := SinkIntegration{
		ID:       newID(),
		Name:     strings.TrimSpace(name),
		Endpoint: strings.TrimSpace(endpoint),
		APIKey:   apiKey,
		IsActive: true,
	}
	if err := r.store.Put(integration); err != nil {
		return SinkIntegration{}, err
	}
	return integration, nil
}

// Delete removes the integration outright.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.Get(id); err != nil {
		return err
	}
	return r.store.Delete(id)
}

// Test issues a lightweight OPTIONS probe against the integration endpoint
// using the stored bearer key. Success marks the integration active and
// stamps lastTestedAt; failure deactivates it but retains the record.
func (r *Registry) Test(ctx context.Context, id string) (SinkIntegration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	integration, err := r.Get(id)
	if err != nil {
		return SinkIntegration{}, err
	}

	ok := r.probe(ctx, integration)
	if ok {
		now := time.Now().UTC()
		integration.IsActive = true
		integration.LastTestedAt = &now
	} else {
		integration.IsActive = false
	}

	if err := r.store.Put(integration); err != nil {
		return SinkIntegration{}, err
	}
	return integration, nil
}

func (r *Registry) probe(ctx context.Context, integration SinkIntegration) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, integration.Endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+integration.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

// newID generates a random hex identifier.
func newID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "integration-fallback-id"
	}
	return hex.EncodeToString(b)
}
