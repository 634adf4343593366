package domain

import "github.com/shopspring/decimal"

// Product is one catalog entry as served by the backend.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"image"`
	MainImage   string          `json:"main_image,omitempty"`
}

// PrimaryImage returns the main image, or the first image when unset.
func (p Product) PrimaryImage() string {
	if p.MainImage != "" {
		return p.MainImage
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// GalleryImages returns the primary image followed by the remaining images,
// without repeating the primary one.
func (p Product) GalleryImages() []string {
	primary := p.PrimaryImage()
	if primary == "" {
		return nil
	}
	gallery := make([]string, 0, len(p.Images)+1)
	gallery = append(gallery, primary)
	for _, image := range p.Images {
		if image != primary {
			gallery = append(gallery, image)
		}
	}
	return gallery
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}
