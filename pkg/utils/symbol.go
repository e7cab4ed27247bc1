package utils

import "strings"

// NormalizeSymbol canonicalizes a user-entered ticker symbol: trimmed,
// uppercased, with a leading "$" removed ("$btc " → "BTC").
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	return strings.TrimPrefix(symbol, "$")
}

// NormalizeCoinID canonicalizes an upstream asset identifier, which is
// always lowercase ("Bitcoin" → "bitcoin").
func NormalizeCoinID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ContainsFold reports whether substr is within s, ignoring case.
// An empty substr matches everything.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
