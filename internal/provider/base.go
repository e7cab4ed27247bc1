package provider

import (
	"context"
	"maps"
	"slices"
)

// BaseFetcher provides common functionality for fetcher implementations.
// Embed this in concrete fetchers to get parameter metadata and defaults.
type BaseFetcher struct {
	resource    Resource
	description string
	required    []string
	optional    []string
	defaults    map[string]string
}

// NewBaseFetcher creates a base fetcher. defaults supplies values for
// optional parameters the caller leaves empty; it may be nil.
func NewBaseFetcher(r Resource, desc string, required, optional []string, defaults map[string]string) BaseFetcher {
	return BaseFetcher{
		resource:    r,
		description: desc,
		required:    required,
		optional:    optional,
		defaults:    defaults,
	}
}

func (b *BaseFetcher) Resource() Resource       { return b.resource }
func (b *BaseFetcher) Description() string      { return b.description }
func (b *BaseFetcher) RequiredParams() []string { return b.required }
func (b *BaseFetcher) OptionalParams() []string { return b.optional }

// Defaults returns a copy of the default parameter values.
func (b *BaseFetcher) Defaults() map[string]string {
	return maps.Clone(b.defaults)
}

// WithDefaults returns a copy of params restricted to the fetcher's known
// keys, with defaults filled in for missing or empty optional values.
func (b *BaseFetcher) WithDefaults(params QueryParams) QueryParams {
	out := make(QueryParams, len(b.required)+len(b.optional))
	for _, k := range b.required {
		out[k] = params[k]
	}
	for _, k := range b.optional {
		if v := params[k]; v != "" {
			out[k] = v
		} else if d, ok := b.defaults[k]; ok {
			out[k] = d
		}
	}
	return out
}

// BaseProvider provides common functionality for provider implementations.
// Embed this in concrete providers to simplify implementation.
type BaseProvider struct {
	info        ProviderInfo
	fetchers    map[Resource]Fetcher
	credentials map[string]string
}

// NewBaseProvider creates a base provider.
func NewBaseProvider(name, description, website string, creds []ProviderCredential) BaseProvider {
	return BaseProvider{
		info: ProviderInfo{
			Name:        name,
			Description: description,
			Website:     website,
			Credentials: creds,
		},
		fetchers:    make(map[Resource]Fetcher),
		credentials: make(map[string]string),
	}
}

func (bp *BaseProvider) Info() ProviderInfo { return bp.info }

func (bp *BaseProvider) Init(credentials map[string]string) error {
	for _, cred := range bp.info.Credentials {
		if !cred.Required {
			continue
		}
		if val, ok := credentials[cred.Name]; !ok || val == "" {
			return &ErrInvalidCredentials{
				Provider: bp.info.Name,
				Detail:   "missing required credential: " + cred.Name,
			}
		}
	}
	bp.credentials = maps.Clone(credentials)
	return nil
}

func (bp *BaseProvider) Fetcher(r Resource) Fetcher {
	return bp.fetchers[r]
}

// SupportedResources returns the registered resources, sorted.
func (bp *BaseProvider) SupportedResources() []Resource {
	return slices.Sorted(maps.Keys(bp.fetchers))
}

func (bp *BaseProvider) Ping(ctx context.Context) error {
	return nil // Override in concrete providers.
}

// RegisterFetcher adds a fetcher to this provider.
func (bp *BaseProvider) RegisterFetcher(f Fetcher) {
	bp.fetchers[f.Resource()] = f
	bp.info.Resources = bp.SupportedResources()
}

// Credential returns a stored credential value.
func (bp *BaseProvider) Credential(name string) string {
	return bp.credentials[name]
}
