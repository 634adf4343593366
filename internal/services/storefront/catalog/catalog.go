// Package catalog holds the product list fetched for the current session.
package catalog

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// Remote is the catalog half of the backend.
type Remote interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, productID string) (domain.Product, bool, error)
}

// Index is the session's catalog. Loads are sequence-fenced: only the most
// recently started load may replace the contents.
type Index struct {
	remote Remote
	logger *zap.Logger

	mu         sync.RWMutex
	products   []domain.Product
	categories []string
	version    uint64
	seq        uint64
	loading    bool
	err        error
}

// NewIndex builds an empty index.
func NewIndex(remote Remote, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{remote: remote, logger: logger}
}

// Load fetches the whole catalog and replaces the index.
func (i *Index) Load(ctx context.Context) error {
	i.mu.Lock()
	i.seq++
	ticket := i.seq
	i.loading = true
	i.mu.Unlock()

	products, err := i.remote.Products(ctx)

	i.mu.Lock()
	defer i.mu.Unlock()
	if ticket != i.seq {
		i.logger.Debug("discarded stale catalog", zap.Uint64("ticket", ticket), zap.Error(apperrors.ErrStaleResponse))
		return nil
	}
	i.loading = false
	if err != nil {
		i.err = err
		i.logger.Warn("catalog load failed", zap.String("code", string(apperrors.CodeOf(err))), zap.Error(err))
		return err
	}
	i.err = nil
	i.products = append([]domain.Product(nil), products...)
	i.categories = Categories(products)
	i.version++
	return nil
}

// Products returns a copy of the catalog in backend order.
func (i *Index) Products() []domain.Product {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]domain.Product(nil), i.products...)
}

// Categories returns the distinct categories in first-appearance order.
func (i *Index) Categories() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]string(nil), i.categories...)
}

// Version increments on every accepted load.
func (i *Index) Version() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.version
}

// Loading reports whether the latest load is still in flight.
func (i *Index) Loading() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.loading
}

// Err is the failure of the latest load, if any.
func (i *Index) Err() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.err
}

// Product fetches a single product for the detail view. The result is not
// merged into the index.
func (i *Index) Product(ctx context.Context, productID string) (domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.Product{}, apperrors.New(apperrors.CodeValidation, "product id is required")
	}
	product, ok, err := i.remote.Product(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if !ok {
		return domain.Product{}, apperrors.WithMetadata(apperrors.CodeNotFound, "product not found", map[string]string{
			"resource":   "Product",
			"product_id": productID,
		})
	}
	return product, nil
}

// Categories derives the distinct category set, case preserved, in the
// order categories first appear.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, product := range products {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		out = append(out, product.Category)
	}
	return out
}
