package domain

import (
	"sort"
	"strings"
)

// ProductQuery narrows a product listing. A category is resolved first
// (by id, else by name); color and pattern then filter the resolved set.
type ProductQuery struct {
	CategoryID   string
	CategoryName string
	Color        string
	Pattern      string
}

// ProductPredicate selects products.
type ProductPredicate func(Product) bool

// ByColor matches color exactly, ignoring case.
func ByColor(color string) ProductPredicate {
	return func(p Product) bool {
		return strings.EqualFold(p.Color, color)
	}
}

// ByPattern matches pattern exactly, ignoring case.
func ByPattern(pattern string) ProductPredicate {
	return func(p Product) bool {
		return strings.EqualFold(p.Pattern, pattern)
	}
}

// ByCategory matches the category id.
func ByCategory(categoryID string) ProductPredicate {
	return func(p Product) bool {
		return p.CategoryID == categoryID
	}
}

// FilterProducts keeps the products matching every predicate, preserving order.
func FilterProducts(products []Product, preds ...ProductPredicate) []Product {
	out := make([]Product, 0, len(products))
next:
	for _, p := range products {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// AttributeFilters returns the color/pattern predicates set on q.
func (q ProductQuery) AttributeFilters() []ProductPredicate {
	var preds []ProductPredicate
	if q.Color != "" {
		preds = append(preds, ByColor(q.Color))
	}
	if q.Pattern != "" {
		preds = append(preds, ByPattern(q.Pattern))
	}
	return preds
}

// RepresentativesPerCategory orders products by (CategoryID, ID) and keeps
// the first k of every category present. Categories without products never
// appear. The input slice is not modified.
func RepresentativesPerCategory(products []Product, k int) []Product {
	if k <= 0 || len(products) == 0 {
		return []Product{}
	}
	sorted := make([]Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CategoryID != sorted[j].CategoryID {
			return sorted[i].CategoryID < sorted[j].CategoryID
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]Product, 0, len(sorted))
	taken := 0
	for i, p := range sorted {
		if i == 0 || p.CategoryID != sorted[i-1].CategoryID {
			taken = 0
		}
		if taken < k {
			out = append(out, p)
			taken++
		}
	}
	return out
}
