package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterAssets returns the assets matching query, in catalog order.
//
// A blank query returns catalog itself. Otherwise matching is case-insensitive: an asset
// is kept when its symbol equals the query or its name contains it.
func FilterAssets(catalog []Asset, query string) []Asset {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return catalog
	}

	out := make([]Asset, 0, len(catalog))
	for _, a := range catalog {
		if strings.ToLower(a.Symbol) == q || strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	return out
}

// RankCatalog orders the priced assets of catalog by price descending, then by name.
// Assets without a positive price are left out. The input slice is not modified.
func RankCatalog(catalog []Asset, prices PriceTable) []Asset {
	out := make([]Asset, 0, len(catalog))
	for _, a := range catalog {
		if prices.Has(a.Symbol) {
			out = append(out, a)
		}
	}

	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := prices.Price(out[i].Symbol), prices.Price(out[j].Symbol)
		if pi != pj {
			return pi > pj
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}
