// Package provider implements the upstream provider abstraction behind the
// gateway. It defines a Provider interface, a Fetcher interface, and a central
// registry that routes requests to the provider serving a resource.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ProviderCredential describes a credential a provider can use.
type ProviderCredential struct {
	Name        string `json:"name"`        // e.g., "api_key"
	Description string `json:"description"` // e.g., "CoinGecko demo or pro API key"
	Required    bool   `json:"required"`
	EnvVar      string `json:"env_var"` // e.g., "CLEANMIND_COINGECKO_API_KEY"
}

// ProviderInfo holds metadata about a registered provider.
type ProviderInfo struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Website     string               `json:"website"`
	Credentials []ProviderCredential `json:"credentials"`
	Resources   []Resource           `json:"resources"`
}

// Provider is the interface that all upstream providers must implement.
type Provider interface {
	// Info returns metadata about this provider.
	Info() ProviderInfo

	// Init initializes the provider with credentials. Returns an error if
	// required credentials are missing.
	Init(credentials map[string]string) error

	// Fetcher returns the fetcher for the given resource, or nil if unsupported.
	Fetcher(r Resource) Fetcher

	// SupportedResources returns all resources this provider can fetch.
	SupportedResources() []Resource

	// Ping verifies the provider's connectivity.
	Ping(ctx context.Context) error
}

// QueryParams is the generic parameter map passed to fetchers. Path and
// query parameters of a gateway request are merged into one map.
type QueryParams map[string]string

// Parameter keys shared by the gateway and the fetchers.
const (
	ParamID                = "id"
	ParamIDs               = "ids"
	ParamQuery             = "query"
	ParamPage              = "page"
	ParamPerPage           = "per_page"
	ParamOrder             = "order"
	ParamVsCurrency        = "vs_currency"
	ParamVsCurrencies      = "vs_currencies"
	ParamDays              = "days"
	ParamPlatform          = "platform"
	ParamAddress           = "address"
	ParamIncludeMarketCap  = "include_market_cap"
	ParamInclude24hVol     = "include_24hr_vol"
	ParamInclude24hChange  = "include_24hr_change"
	ParamIncludeLastUpdate = "include_last_updated_at"
)

// FetchResult wraps an upstream payload with metadata. Body is forwarded to
// gateway clients byte for byte.
type FetchResult struct {
	Provider  string          `json:"provider"`
	Resource  Resource        `json:"resource"`
	Body      json.RawMessage `json:"body"`
	Attempts  int             `json:"attempts"` // outbound requests made, retries included
	FetchedAt time.Time       `json:"fetched_at"`
}

// Fetcher fetches a single resource.
type Fetcher interface {
	// Resource returns the resource this fetcher handles.
	Resource() Resource

	// Description returns a human-readable description of the resource.
	Description() string

	// RequiredParams returns the parameter keys this fetcher requires.
	RequiredParams() []string

	// OptionalParams returns the parameter keys this fetcher optionally accepts.
	OptionalParams() []string

	// Fetch retrieves the resource for the given parameters.
	Fetch(ctx context.Context, params QueryParams) (*FetchResult, error)
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrResourceNotSupported is returned when a provider doesn't serve a resource.
// An empty Provider means no registered provider serves it.
type ErrResourceNotSupported struct {
	Provider string
	Resource Resource
}

func (e *ErrResourceNotSupported) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("no provider serves resource %q", e.Resource)
	}
	return fmt.Sprintf("provider %q does not support resource %q", e.Provider, e.Resource)
}

// ErrMissingParam is returned when a required parameter is missing or empty.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ErrInvalidCredentials is returned when provider credentials are invalid.
type ErrInvalidCredentials struct {
	Provider string
	Detail   string
}

func (e *ErrInvalidCredentials) Error() string {
	return fmt.Sprintf("invalid credentials for provider %q: %s", e.Provider, e.Detail)
}

// ValidateParams checks that all required parameters are present in params.
func ValidateParams(params QueryParams, required []string) error {
	for _, key := range required {
		if v, ok := params[key]; !ok || v == "" {
			return &ErrMissingParam{Param: key}
		}
	}
	return nil
}
