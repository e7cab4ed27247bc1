package models

// NFTCollectionSummary is one entry of the NFT collection list.
type NFTCollectionSummary struct {
	ID              string `json:"id"`
	ContractAddress string `json:"contract_address"`
	Name            string `json:"name"`
	AssetPlatformID string `json:"asset_platform_id"`
	Symbol          string `json:"symbol"`
}

// NFTCollectionDetail is the full description of a collection.
type NFTCollectionDetail struct {
	ID                                  string    `json:"id"`
	ContractAddress                     string    `json:"contract_address"`
	AssetPlatformID                     string    `json:"asset_platform_id"`
	Name                                string    `json:"name"`
	Symbol                              string    `json:"symbol"`
	Image                               NFTImage  `json:"image"`
	Description                         string    `json:"description"`
	NativeCurrency                      string    `json:"native_currency"`
	NativeCurrencySymbol                string    `json:"native_currency_symbol"`
	FloorPrice                          NFTAmount `json:"floor_price"`
	MarketCap                           NFTAmount `json:"market_cap"`
	Volume24h                           NFTAmount `json:"volume_24h"`
	FloorPriceInUSD24hPercentageChange  *float64  `json:"floor_price_in_usd_24h_percentage_change"`
	FloorPrice24hPercentageChange       NFTAmount `json:"floor_price_24h_percentage_change"`
	MarketCap24hPercentageChange        NFTAmount `json:"market_cap_24h_percentage_change"`
	Volume24hPercentageChange           NFTAmount `json:"volume_24h_percentage_change"`
	NumberOfUniqueAddresses             *float64  `json:"number_of_unique_addresses"`
	NumberOfUniqueAddresses24hPctChange *float64  `json:"number_of_unique_addresses_24h_percentage_change"`
	TotalSupply                         *float64  `json:"total_supply"`
	OneDaySales                         *float64  `json:"one_day_sales"`
	OneDayAverageSalePrice              *float64  `json:"one_day_average_sale_price"`
	Links                               NFTLinks  `json:"links"`
}

// NFTImage holds the collection artwork.
type NFTImage struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// NFTAmount is a value quoted in the collection's native currency and USD.
type NFTAmount struct {
	NativeCurrency *float64 `json:"native_currency"`
	USD            *float64 `json:"usd"`
}

// NFTLinks holds the collection's external links.
type NFTLinks struct {
	Homepage string `json:"homepage"`
	Twitter  string `json:"twitter"`
	Discord  string `json:"discord"`
}
