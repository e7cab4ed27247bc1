package provider

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

// Registry is a thread-safe registry of upstream providers. It maps provider
// names to Provider instances and indexes which providers serve each resource.
// The first provider registered for a resource serves it.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]Provider   // name → provider
	resourceIdx map[Resource][]string // resource → provider names (priority order)
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers:   make(map[string]Provider),
		resourceIdx: make(map[Resource][]string),
	}
}

// Register adds a provider to the registry. Init must already have been called.
// Duplicate registrations overwrite the previous entry.
func (r *Registry) Register(p Provider) error {
	info := p.Info()
	if info.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[info.Name] = p

	for _, res := range p.SupportedResources() {
		if existing := r.resourceIdx[res]; !slices.Contains(existing, info.Name) {
			r.resourceIdx[res] = append(existing, info.Name)
		}
	}
	return nil
}

// Get returns a provider by name, or an error if not found.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return p, nil
}

// List returns info about all registered providers, sorted by name.
func (r *Registry) List() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ProviderInfo, 0, len(r.providers))
	for _, p := range r.providers {
		infos = append(infos, p.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Fetch retrieves a resource from the first provider serving it. Required
// parameters are validated before any upstream call is made.
func (r *Registry) Fetch(ctx context.Context, res Resource, params QueryParams) (*FetchResult, error) {
	r.mu.RLock()
	var providerName string
	if names := r.resourceIdx[res]; len(names) > 0 {
		providerName = names[0]
	}
	p, ok := r.providers[providerName]
	r.mu.RUnlock()

	if !ok {
		return nil, &ErrResourceNotSupported{Resource: res}
	}

	fetcher := p.Fetcher(res)
	if fetcher == nil {
		return nil, &ErrResourceNotSupported{Provider: providerName, Resource: res}
	}

	if err := ValidateParams(params, fetcher.RequiredParams()); err != nil {
		return nil, err
	}

	result, err := fetcher.Fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("provider %q fetch %s: %w", providerName, res, err)
	}

	result.Provider = providerName
	result.Resource = res
	if result.FetchedAt.IsZero() {
		result.FetchedAt = time.Now()
	}
	return result, nil
}

// Coverage returns a map of resources to the providers that serve them.
func (r *Registry) Coverage() map[Resource][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coverage := make(map[Resource][]string, len(r.resourceIdx))
	for res, names := range r.resourceIdx {
		coverage[res] = slices.Clone(names)
	}
	return coverage
}
