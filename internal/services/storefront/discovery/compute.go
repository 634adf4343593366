// Package discovery turns the raw catalog into the shopper's current result
// page: category and expression filtering, weighted fuzzy search, then
// fixed-size pagination.
package discovery

import (
	"github.com/louisbranch/storefront/internal/platform/pagination"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// PageSize is the number of products on one result page.
const PageSize = 4

// Params are the inputs of one view computation. SearchText is the settled
// (debounced) text.
type Params struct {
	Category   string
	Filter     Filter
	SearchText string
	Page       int
}

// View is one page of results.
type View struct {
	Items        []domain.Product
	CurrentPage  int
	TotalPages   int
	TotalMatches int
}

// Compute derives the view for params. It has no side effects: identical
// inputs always give identical views.
func Compute(products []domain.Product, params Params) (View, error) {
	matches, err := Matches(products, params.Category, params.Filter, params.SearchText)
	if err != nil {
		return View{}, err
	}
	return Paginate(matches, params.Page), nil
}

// Matches runs the filter and search stages.
func Matches(products []domain.Product, category string, filter Filter, searchText string) ([]domain.Product, error) {
	filtered := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if category != "" && product.Category != category {
			continue
		}
		filtered = append(filtered, product)
	}
	filtered, err := filter.Apply(filtered)
	if err != nil {
		return nil, err
	}
	ranked := Search(filtered, searchText)
	out := make([]domain.Product, len(ranked))
	for i, match := range ranked {
		out[i] = match.Product
	}
	return out, nil
}

// Paginate slices one page out of matches, clamping page into range.
func Paginate(matches []domain.Product, page int) View {
	total := pagination.TotalPages(len(matches), PageSize)
	current := pagination.ClampPage(page, total)
	start, end := pagination.Bounds(current, PageSize, len(matches))
	items := make([]domain.Product, end-start)
	copy(items, matches[start:end])
	return View{
		Items:        items,
		CurrentPage:  current,
		TotalPages:   total,
		TotalMatches: len(matches),
	}
}
