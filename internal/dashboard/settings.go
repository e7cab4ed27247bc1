package dashboard

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/seenimoa/cleanmind/pkg/models"
)

// Values offered by the settings page.
var (
	Themes     = []string{"light", "dark", "system"}
	Currencies = []string{"usd", "eur", "gbp", "jpy", "btc", "eth"}
	Languages  = []string{"en", "es", "fr", "de", "ja", "zh"}
)

// SettingsStore holds the session's preferences.
type SettingsStore struct {
	mu     sync.RWMutex
	s      models.Settings
	notify notifier
}

// NewSettingsStore starts from models.DefaultSettings.
func NewSettingsStore(onChange ChangeFunc) *SettingsStore {
	return &SettingsStore{s: models.DefaultSettings(), notify: notifier{fn: onChange}}
}

// Get returns the current settings.
func (st *SettingsStore) Get() models.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Update merges incoming into the current settings and returns the result.
// Empty strings keep the current value; toggle groups are always applied.
func (st *SettingsStore) Update(incoming models.Settings) (models.Settings, error) {
	incoming.Theme = strings.ToLower(strings.TrimSpace(incoming.Theme))
	incoming.Currency = strings.ToLower(strings.TrimSpace(incoming.Currency))
	incoming.Language = strings.ToLower(strings.TrimSpace(incoming.Language))
	if err := validateChoice("theme", incoming.Theme, Themes); err != nil {
		return models.Settings{}, err
	}
	if err := validateChoice("currency", incoming.Currency, Currencies); err != nil {
		return models.Settings{}, err
	}
	if err := validateChoice("language", incoming.Language, Languages); err != nil {
		return models.Settings{}, err
	}

	st.mu.Lock()
	mergeSettings(&st.s, &incoming)
	out := st.s
	st.mu.Unlock()
	st.notify.emit("settings", "update", "", out)
	return out, nil
}

// Reset restores the defaults.
func (st *SettingsStore) Reset() models.Settings {
	st.mu.Lock()
	st.s = models.DefaultSettings()
	out := st.s
	st.mu.Unlock()
	st.notify.emit("settings", "update", "", out)
	return out
}

func validateChoice(field, v string, allowed []string) error {
	if v == "" || slices.Contains(allowed, v) {
		return nil
	}
	return fmt.Errorf("unsupported %s %q", field, v)
}

// mergeSettings copies non-empty values from src into dst.
func mergeSettings(dst, src *models.Settings) {
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.Currency != "" {
		dst.Currency = src.Currency
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
	// Toggle groups are plain bools, so a group is applied whole.
	dst.Notifications = src.Notifications
	dst.Display = src.Display
	dst.Privacy = src.Privacy
}
