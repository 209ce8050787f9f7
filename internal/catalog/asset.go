package catalog

// Asset is a tradable token identified by its symbol.
type Asset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// defaultAssets is the token list shown by the swap form.
// The upstream list repeats a couple of entries; DefaultAssets drops them.
var defaultAssets = []Asset{
	{Symbol: "SWTH", Name: "Switcheo Token", Decimals: 8},
	{Symbol: "ETH", Name: "Ethereum", Decimals: 18},
	{Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	{Symbol: "USDT", Name: "Tether USD", Decimals: 6},
	{Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8},
	{Symbol: "ZIL", Name: "Zilliqa", Decimals: 12},
	{Symbol: "bNEO", Name: "Wrapped Neo", Decimals: 8},
	{Symbol: "BUSD", Name: "Binance USD", Decimals: 18},
	{Symbol: "iUSD", Name: "iZiSwap USD", Decimals: 18},
	{Symbol: "USC", Name: "USC Token", Decimals: 18},
	{Symbol: "WETH", Name: "Wrapped Ethereum", Decimals: 18},
	{Symbol: "LUNA", Name: "Terra Luna", Decimals: 6},
	{Symbol: "ATOM", Name: "Cosmos", Decimals: 6},
	{Symbol: "OSMO", Name: "Osmosis", Decimals: 6},
	{Symbol: "STARS", Name: "Stargaze", Decimals: 6},
	{Symbol: "HUAHUA", Name: "Chihuahua", Decimals: 6},
	{Symbol: "CRO", Name: "Crypto.com Coin", Decimals: 8},
	{Symbol: "EVMOS", Name: "Evmos", Decimals: 18},
	{Symbol: "OKB", Name: "OKB", Decimals: 18},
	{Symbol: "OKT", Name: "OKExChain Token", Decimals: 18},
	{Symbol: "STEVMOS", Name: "Stride Staked EVMOS", Decimals: 18},
	{Symbol: "STEVMOS", Name: "Stride Staked EVMOS", Decimals: 18},
	{Symbol: "STOSMO", Name: "Stride Staked OSMO", Decimals: 6},
	{Symbol: "STATOM", Name: "Stride Staked ATOM", Decimals: 6},
	{Symbol: "STLUNA", Name: "Stride Staked LUNA", Decimals: 6},
	{Symbol: "STTSTARS", Name: "Stride Staked STARS", Decimals: 6},
	{Symbol: "SWTH", Name: "Switcheo Token", Decimals: 8},
	{Symbol: "USD", Name: "US Dollar", Decimals: 2},
	{Symbol: "TMAC", Name: "TMAC Token", Decimals: 18},
	{Symbol: "USDCDH", Name: "USDC Demex Hub", Decimals: 6},
}

// DefaultAssets returns a fresh copy of the built-in catalog with one entry per symbol.
func DefaultAssets() []Asset {
	return Dedupe(defaultAssets)
}

// Dedupe keeps the first asset seen for each symbol, preserving order.
func Dedupe(assets []Asset) []Asset {
	seen := make(map[string]struct{}, len(assets))
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if _, ok := seen[a.Symbol]; ok {
			continue
		}
		seen[a.Symbol] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Lookup finds an asset by symbol. Symbols are case-sensitive (bNEO and iUSD exist).
func Lookup(assets []Asset, symbol string) (Asset, bool) {
	for _, a := range assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}
