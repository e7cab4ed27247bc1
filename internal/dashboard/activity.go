package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

var kindColors = map[models.ActivityKind]string{
	models.ActivityPriceAlert: "green-500",
	models.ActivityTrending:   "orange-500",
	models.ActivityWatchlist:  "blue-500",
	models.ActivityPortfolio:  "purple-500",
	models.ActivitySearch:     "gray-500",
}

// KindColor returns the accent color of an activity kind.
func KindColor(k models.ActivityKind) string {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return "gray-500"
}

func seedActivity(now time.Time) []models.ActivityEvent {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	return []models.ActivityEvent{
		{ID: "1", Kind: models.ActivityPriceAlert, Title: "Bitcoin Price Alert", Description: "BTC reached $65,000",
			Timestamp: ago(30 * time.Minute), Symbol: "BTC", Value: models.Ptr(65000.0)},
		{ID: "2", Kind: models.ActivityTrending, Title: "New Trending Coin", Description: "Solana is trending in the market",
			Timestamp: ago(2 * time.Hour), Symbol: "SOL"},
		{ID: "3", Kind: models.ActivityWatchlist, Title: "Added to Watchlist", Description: "Ethereum added to your watchlist",
			Timestamp: ago(4 * time.Hour), Symbol: "ETH"},
		{ID: "4", Kind: models.ActivityPortfolio, Title: "Portfolio Update", Description: "Your portfolio value increased by 5.2%",
			Timestamp: ago(6 * time.Hour), Change: models.Ptr(5.2)},
		{ID: "5", Kind: models.ActivitySearch, Title: "Search Activity", Description: `Searched for "DeFi tokens"`,
			Timestamp: ago(8 * time.Hour)},
		{ID: "6", Kind: models.ActivityPriceAlert, Title: "Ethereum Price Alert", Description: "ETH dropped below $3,500",
			Timestamp: ago(12 * time.Hour), Symbol: "ETH", Value: models.Ptr(3500.0)},
	}
}

// ActivityItem is an event with its display fields.
type ActivityItem struct {
	models.ActivityEvent
	Color   string `json:"color"`
	TimeAgo string `json:"time_ago"`
}

// ActivityLog is the in-memory activity feed.
type ActivityLog struct {
	mu     sync.RWMutex
	events []models.ActivityEvent
	notify notifier
}

// NewActivityLog returns a feed seeded with six events relative to now.
func NewActivityLog(now time.Time, onChange ChangeFunc) *ActivityLog {
	return &ActivityLog{
		events: seedActivity(now),
		notify: notifier{fn: onChange},
	}
}

// List returns the events newest first, with display fields relative to now.
func (l *ActivityLog) List(now time.Time) []ActivityItem {
	l.mu.RLock()
	events := slices.Clone(l.events)
	l.mu.RUnlock()

	slices.SortStableFunc(events, func(a, b models.ActivityEvent) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})
	out := make([]ActivityItem, len(events))
	for i, e := range events {
		out[i] = ActivityItem{ActivityEvent: e, Color: KindColor(e.Kind), TimeAgo: utils.FormatRelativeTimeAt(e.Timestamp, now)}
	}
	return out
}

// Record appends e, assigning an id and timestamp when missing.
func (l *ActivityLog) Record(e models.ActivityEvent) models.ActivityEvent {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
	l.notify.emit("activity", "add", e.ID, e)
	return e
}

// ErrInvalidActivity is returned when a new event fails validation.
var ErrInvalidActivity = errors.New("invalid activity")

// ActivityInput is an event submitted by a client.
type ActivityInput struct {
	Kind        models.ActivityKind `json:"type"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Symbol      string              `json:"symbol,omitempty"`
	Value       *float64            `json:"value,omitempty"`
	Change      *float64            `json:"change,omitempty"`
}

// Validate requires a known kind and a title.
func (in ActivityInput) Validate() error {
	if !slices.Contains(models.ActivityKinds(), in.Kind) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidActivity, in.Kind)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidActivity)
	}
	return nil
}

// Add validates in and records it as a new event.
func (l *ActivityLog) Add(in ActivityInput) (models.ActivityEvent, error) {
	if err := in.Validate(); err != nil {
		return models.ActivityEvent{}, err
	}
	return l.Record(models.ActivityEvent{
		Kind:        in.Kind,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Symbol:      utils.NormalizeSymbol(in.Symbol),
		Value:       in.Value,
		Change:      in.Change,
	}), nil
}

// WatchlistAdded is the event recorded when e joins the watchlist.
func WatchlistAdded(e models.WatchlistEntry) models.ActivityEvent {
	return models.ActivityEvent{
		Kind:        models.ActivityWatchlist,
		Title:       "Added to Watchlist",
		Description: e.Name + " added to your watchlist",
		Timestamp:   e.AddedAt,
		Symbol:      e.Symbol,
	}
}

// HoldingAdded is the event recorded when h joins the portfolio.
func HoldingAdded(h models.PortfolioHolding) models.ActivityEvent {
	return models.ActivityEvent{
		Kind:        models.ActivityPortfolio,
		Title:       "Portfolio Update",
		Description: fmt.Sprintf("Added %s %s to your portfolio", h.Amount.String(), h.Symbol),
		Timestamp:   h.AddedAt,
		Symbol:      h.Symbol,
		Value:       models.Ptr(h.Value.InexactFloat64()),
	}
}

// Remove deletes the event with id and reports whether it existed.
func (l *ActivityLog) Remove(id string) bool {
	l.mu.Lock()
	n := len(l.events)
	l.events = slices.DeleteFunc(l.events, func(e models.ActivityEvent) bool { return e.ID == id })
	removed := len(l.events) != n
	l.mu.Unlock()
	if removed {
		l.notify.emit("activity", "remove", id, nil)
	}
	return removed
}

// Clear deletes every event.
func (l *ActivityLog) Clear() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
	l.notify.emit("activity", "clear", "", nil)
}

// CountByKind counts events per kind; every kind is present.
func (l *ActivityLog) CountByKind() map[models.ActivityKind]int {
	counts := make(map[models.ActivityKind]int, len(kindColors))
	for _, k := range models.ActivityKinds() {
		counts[k] = 0
	}
	l.mu.RLock()
	for _, e := range l.events {
		counts[e.Kind]++
	}
	l.mu.RUnlock()
	return counts
}
