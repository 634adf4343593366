package remote

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

type productsResponse struct {
	Products []productWire `json:"products"`
}

type productResponse struct {
	Product *productWire `json:"product"`
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var resp productsResponse
	if err := c.do(ctx, request{method: http.MethodGet, route: "/getproducts", path: "/getproducts"}, &resp); err != nil {
		return nil, err
	}
	return mapSlice(resp.Products, productWire.toDomain), nil
}

// Product fetches one product.
func (c *Client) Product(ctx context.Context, productID string) (domain.Product, bool, error) {
	var resp productResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/getproduct/:id",
		path:   "/getproduct/" + pathEscape(productID),
	}, &resp)
	if err != nil {
		return domain.Product{}, false, err
	}
	if resp.Product == nil {
		return domain.Product{}, false, nil
	}
	return resp.Product.toDomain(), true, nil
}
