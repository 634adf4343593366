package discovery

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// Filter is a parsed catalog filter expression such as
// `stock > 0 AND price <= 20`. The zero value matches everything.
type Filter struct {
	source string
	expr   *expr.Expr
}

// String returns the expression the filter was parsed from.
func (f Filter) String() string { return f.source }

// Empty reports whether the filter matches everything.
func (f Filter) Empty() bool { return f.expr == nil }

var filterFields = map[string]*expr.Type{
	"name":        filtering.TypeString,
	"description": filtering.TypeString,
	"category":    filtering.TypeString,
	"price":       filtering.TypeFloat,
	"stock":       filtering.TypeInt,
}

// ParseFilter parses an AIP-160 expression over name, description,
// category, price and stock.
func ParseFilter(raw string) (Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Filter{}, nil
	}
	decls, err := filterDeclarations()
	if err != nil {
		return Filter{}, err
	}
	parsed, err := filtering.ParseFilterString(raw, decls)
	if err != nil {
		return Filter{}, fmt.Errorf("parse filter: %w", err)
	}
	checked := parsed.CheckedExpr.GetExpr()
	if err := checkShape(checked); err != nil {
		return Filter{}, fmt.Errorf("parse filter: %w", err)
	}
	return Filter{source: raw, expr: checked}, nil
}

func filterDeclarations() (*filtering.Declarations, error) {
	decls := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for name, kind := range filterFields {
		decls = append(decls, filtering.DeclareIdent(name, kind))
	}
	// Let price compare against integer literals, e.g. price <= 20.
	for _, fn := range []string{
		filtering.FunctionEquals,
		filtering.FunctionNotEquals,
		filtering.FunctionLessThan,
		filtering.FunctionLessEquals,
		filtering.FunctionGreaterThan,
		filtering.FunctionGreaterEquals,
	} {
		decls = append(decls, filtering.DeclareFunction(fn,
			filtering.NewFunctionOverload(fn+"_float_int", filtering.TypeBool, filtering.TypeFloat, filtering.TypeInt),
		))
	}
	return filtering.NewDeclarations(decls...)
}

// Match evaluates the filter against one product.
func (f Filter) Match(product domain.Product) (bool, error) {
	if f.expr == nil {
		return true, nil
	}
	return evaluate(f.expr, productResolver(product))
}

// Apply keeps the products the filter matches, in order.
func (f Filter) Apply(products []domain.Product) ([]domain.Product, error) {
	if f.Empty() {
		return products, nil
	}
	out := make([]domain.Product, 0, len(products))
	for _, product := range products {
		ok, err := f.Match(product)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, product)
		}
	}
	return out, nil
}

type resolver func(name string) (any, bool)

func productResolver(p domain.Product) resolver {
	return func(name string) (any, bool) {
		switch name {
		case "name":
			return p.Name, true
		case "description":
			return p.Description, true
		case "category":
			return p.Category, true
		case "price":
			return p.Price.InexactFloat64(), true
		case "stock":
			return p.Stock, true
		default:
			return nil, false
		}
	}
}
