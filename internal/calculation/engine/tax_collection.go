package engine

import (
	"github.com/samber/lo"
	"github.com/smallbiznis/invoicesum/internal/calculation/domain"
)

// taxItem builds a breakdown row for one tax slot.
func taxItem(key domain.TaxKey, total float64) domain.TaxItem {
	return domain.TaxItem{Key: key, Name: key.Label(), Total: total}
}

// hasName reports whether a tax slot is in use. Whitespace counts as a name.
func hasName(name string) bool {
	return name != ""
}

// mergeTaxes groups contributions by key. The first contribution of a key
// decides its position and display name.
func mergeTaxes(items []domain.TaxItem) []domain.TaxItem {
	keys := lo.Uniq(lo.Map(items, func(item domain.TaxItem, _ int) domain.TaxKey {
		return item.Key
	}))

	return lo.Map(keys, func(key domain.TaxKey, _ int) domain.TaxItem {
		group := lo.Filter(items, func(item domain.TaxItem, _ int) bool {
			return item.Key == key
		})
		return domain.TaxItem{
			Key:  key,
			Name: group[0].Name,
			Total: lo.SumBy(group, func(item domain.TaxItem) float64 {
				return item.Total
			}),
		}
	})
}
