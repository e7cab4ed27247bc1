package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioHolding is a user-entered position. Money fields use decimal
// arithmetic so totals do not drift.
type PortfolioHolding struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Amount            decimal.Decimal `json:"amount"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	Value             decimal.Decimal `json:"value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percentage"`
	AddedAt           time.Time       `json:"added_at"`
}

// WatchlistEntry is a tracked asset.
type WatchlistEntry struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"`
	MarketCap float64   `json:"market_cap"`
	Rank      int       `json:"rank"`
	Image     string    `json:"image"`
	AddedAt   time.Time `json:"added_at"`
}

// ActivityKind classifies an activity-feed event.
type ActivityKind string

const (
	ActivityPriceAlert ActivityKind = "price_alert"
	ActivityTrending   ActivityKind = "trending"
	ActivityWatchlist  ActivityKind = "watchlist"
	ActivityPortfolio  ActivityKind = "portfolio"
	ActivitySearch     ActivityKind = "search"
)

// ActivityKinds lists every kind in display order.
func ActivityKinds() []ActivityKind {
	return []ActivityKind{ActivityPriceAlert, ActivityTrending, ActivityWatchlist, ActivityPortfolio, ActivitySearch}
}

// ActivityEvent is one entry of the activity feed.
type ActivityEvent struct {
	ID          string       `json:"id"`
	Kind        ActivityKind `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	Symbol      string       `json:"symbol,omitempty"`
	Value       *float64     `json:"value,omitempty"`
	Change      *float64     `json:"change,omitempty"`
}

// Settings are the user preferences shown on the settings page.
type Settings struct {
	Theme         string               `json:"theme"`    // "light", "dark" or "system"
	Currency      string               `json:"currency"` // lowercase ISO code
	Language      string               `json:"language"`
	Notifications NotificationSettings `json:"notifications"`
	Display       DisplaySettings      `json:"display"`
	Privacy       PrivacySettings      `json:"privacy"`
}

// NotificationSettings toggles the notification channels.
type NotificationSettings struct {
	PriceAlerts      bool `json:"priceAlerts"`
	PortfolioUpdates bool `json:"portfolioUpdates"`
	TrendingCoins    bool `json:"trendingCoins"`
	MarketNews       bool `json:"marketNews"`
}

// DisplaySettings toggles table columns and density.
type DisplaySettings struct {
	ShowMarketCap bool `json:"showMarketCap"`
	ShowVolume    bool `json:"showVolume"`
	ShowChange    bool `json:"showChange"`
	CompactMode   bool `json:"compactMode"`
}

// PrivacySettings toggles data sharing.
type PrivacySettings struct {
	ShareData    bool `json:"shareData"`
	Analytics    bool `json:"analytics"`
	CrashReports bool `json:"crashReports"`
}

// DefaultSettings returns the preferences a new session starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:    "system",
		Currency: "usd",
		Language: "en",
		Notifications: NotificationSettings{
			PriceAlerts:      true,
			PortfolioUpdates: true,
			TrendingCoins:    false,
			MarketNews:       true,
		},
		Display: DisplaySettings{
			ShowMarketCap: true,
			ShowVolume:    true,
			ShowChange:    true,
			CompactMode:   false,
		},
		Privacy: PrivacySettings{
			ShareData:    false,
			Analytics:    true,
			CrashReports: true,
		},
	}
}
