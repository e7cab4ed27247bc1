package provider

// Resource identifies one upstream market-data resource the gateway exposes.
// The string value doubles as the gateway route segment.
type Resource string

// --- Market ---
const (
	ResourceGlobal              Resource = "global"
	ResourceTrending            Resource = "trending"
	ResourcePing                Resource = "ping"
	ResourceSupportedCurrencies Resource = "supported-currencies"
)

// --- Assets ---
const (
	ResourceCoinList    Resource = "coin-list"
	ResourceCoinDetail  Resource = "coin"
	ResourceMarkets     Resource = "top-cryptos"
	ResourceSearch      Resource = "search"
	ResourceSimplePrice Resource = "simple-price"
	ResourceMarketChart Resource = "market-chart"
)

// --- Exchanges ---
const (
	ResourceExchanges Resource = "exchanges"
)

// --- NFT ---
const (
	ResourceNFTList       Resource = "nfts"
	ResourceNFTDetail     Resource = "nft"
	ResourceNFTByContract Resource = "nft-contract"
)

// AllResources returns every resource in display order.
func AllResources() []Resource {
	return []Resource{
		ResourceGlobal, ResourceTrending, ResourcePing, ResourceSupportedCurrencies,
		ResourceCoinList, ResourceCoinDetail, ResourceMarkets, ResourceSearch,
		ResourceSimplePrice, ResourceMarketChart,
		ResourceExchanges,
		ResourceNFTList, ResourceNFTDetail, ResourceNFTByContract,
	}
}

// ResourceCategory returns the display category for a resource.
func ResourceCategory(r Resource) string {
	switch r {
	case ResourceGlobal, ResourceTrending, ResourcePing, ResourceSupportedCurrencies:
		return "Market"
	case ResourceCoinList, ResourceCoinDetail, ResourceMarkets,
		ResourceSearch, ResourceSimplePrice, ResourceMarketChart:
		return "Assets"
	case ResourceExchanges:
		return "Exchanges"
	case ResourceNFTList, ResourceNFTDetail, ResourceNFTByContract:
		return "NFT"
	default:
		return "Unknown"
	}
}

// IsNFT reports whether r belongs to the rate-limited NFT family.
func IsNFT(r Resource) bool {
	return ResourceCategory(r) == "NFT"
}
