package dashboard

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

// ErrEmptySymbol is returned when adding a blank symbol.
var ErrEmptySymbol = errors.New("symbol is required")

const (
	imageBase        = "https://assets.coingecko.com/coins/images/"
	placeholderImage = "https://via.placeholder.com/32x32"
)

func seedWatchlist(now time.Time) []models.WatchlistEntry {
	return []models.WatchlistEntry{
		{ID: "1", Symbol: "BTC", Name: "Bitcoin", Price: 65000, Change24h: 2.5, MarketCap: 1.2e12, Rank: 1,
			Image: imageBase + "1/large/bitcoin.png", AddedAt: now},
		{ID: "2", Symbol: "ETH", Name: "Ethereum", Price: 3500, Change24h: -1.2, MarketCap: 4.2e11, Rank: 2,
			Image: imageBase + "279/large/ethereum.png", AddedAt: now},
		{ID: "3", Symbol: "SOL", Name: "Solana", Price: 80, Change24h: 5.8, MarketCap: 3.5e10, Rank: 5,
			Image: imageBase + "4128/large/solana.png", AddedAt: now},
	}
}

// Watchlist is the in-memory list of tracked assets.
type Watchlist struct {
	mu      sync.RWMutex
	entries []models.WatchlistEntry
	notify  notifier
}

// NewWatchlist returns a watchlist seeded with three assets.
func NewWatchlist(onChange ChangeFunc) *Watchlist {
	return &Watchlist{
		entries: seedWatchlist(time.Now()),
		notify:  notifier{fn: onChange},
	}
}

// List returns the entries whose name or symbol contains query.
func (w *Watchlist) List(query string) []models.WatchlistEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return FilterByText(w.entries, strings.TrimSpace(query), func(e models.WatchlistEntry) (string, string) {
		return e.Name, e.Symbol
	})
}

// Add appends symbol with placeholder market fields.
func (w *Watchlist) Add(symbol string) (models.WatchlistEntry, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return models.WatchlistEntry{}, ErrEmptySymbol
	}
	e := models.WatchlistEntry{
		ID:      uuid.NewString(),
		Symbol:  symbol,
		Name:    symbol,
		Image:   placeholderImage,
		AddedAt: time.Now(),
	}
	w.mu.Lock()
	w.entries = append(w.entries, e)
	w.mu.Unlock()
	w.notify.emit("watchlist", "add", e.ID, e)
	return e, nil
}

// Remove deletes the entry with id and reports whether it existed.
func (w *Watchlist) Remove(id string) bool {
	w.mu.Lock()
	n := len(w.entries)
	w.entries = slices.DeleteFunc(w.entries, func(e models.WatchlistEntry) bool { return e.ID == id })
	removed := len(w.entries) != n
	w.mu.Unlock()
	if removed {
		w.notify.emit("watchlist", "remove", id, nil)
	}
	return removed
}
