package dto

import (
	"time"

	"github.com/storefront/catalog-service/internal/domain"
)

// CreateProductRequest is accepted both as JSON and as multipart form fields.
type CreateProductRequest struct {
	Title              string   `json:"title" form:"title" validate:"required,max=200"`
	Detail             string   `json:"detail" form:"detail"`
	Price              *float64 `json:"price" form:"price" validate:"required,gte=0"`
	Category           string   `json:"category" form:"category" validate:"required"`
	BrandName          string   `json:"brandName" form:"brandName"`
	Pattern            string   `json:"pattern" form:"pattern"`
	Color              string   `json:"color" form:"color"`
	DiscountRate       float64  `json:"discountRate" form:"discountRate" validate:"gte=0,lte=100"`
	PriceAfterDiscount *float64 `json:"priceAfterDiscount" form:"priceAfterDiscount" validate:"omitempty,gte=0"`
	Rating             float64  `json:"rating" form:"rating" validate:"gte=0,lte=5"`
	IsInStock          *bool    `json:"isInStock" form:"isInStock"`
	IsFeatured         bool     `json:"isFeatured" form:"isFeatured"`
	IsPopular          bool     `json:"isPopular" form:"isPopular"`
}

// Input converts the request into domain input. Call it after Validate.
func (r CreateProductRequest) Input() domain.ProductInput {
	var price float64
	if r.Price != nil {
		price = *r.Price
	}
	return domain.ProductInput{
		Title:              r.Title,
		Detail:             r.Detail,
		Price:              price,
		CategoryID:         r.Category,
		BrandName:          r.BrandName,
		Pattern:            r.Pattern,
		Color:              r.Color,
		DiscountRate:       r.DiscountRate,
		PriceAfterDiscount: r.PriceAfterDiscount,
		Rating:             r.Rating,
		IsInStock:          r.IsInStock,
		IsFeatured:         r.IsFeatured,
		IsPopular:          r.IsPopular,
	}
}

// UpdateProductRequest lists the mutable product fields; absent fields are
// left unchanged.
type UpdateProductRequest struct {
	Title              *string  `json:"title" form:"title" validate:"omitempty,min=1,max=200"`
	Detail             *string  `json:"detail" form:"detail"`
	Price              *float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
	Category           *string  `json:"category" form:"category" validate:"omitempty,min=1"`
	BrandName          *string  `json:"brandName" form:"brandName"`
	Pattern            *string  `json:"pattern" form:"pattern"`
	Color              *string  `json:"color" form:"color"`
	DiscountRate       *float64 `json:"discountRate" form:"discountRate" validate:"omitempty,gte=0,lte=100"`
	PriceAfterDiscount *float64 `json:"priceAfterDiscount" form:"priceAfterDiscount" validate:"omitempty,gte=0"`
	Rating             *float64 `json:"rating" form:"rating" validate:"omitempty,gte=0,lte=5"`
	IsInStock          *bool    `json:"isInStock" form:"isInStock"`
	IsFeatured         *bool    `json:"isFeatured" form:"isFeatured"`
	IsPopular          *bool    `json:"isPopular" form:"isPopular"`
}

// Patch converts the request into a domain patch.
func (r UpdateProductRequest) Patch() domain.ProductPatch {
	return domain.ProductPatch{
		Title:              r.Title,
		Detail:             r.Detail,
		Price:              r.Price,
		CategoryID:         r.Category,
		BrandName:          r.BrandName,
		Pattern:            r.Pattern,
		Color:              r.Color,
		DiscountRate:       r.DiscountRate,
		PriceAfterDiscount: r.PriceAfterDiscount,
		Rating:             r.Rating,
		IsInStock:          r.IsInStock,
		IsFeatured:         r.IsFeatured,
		IsPopular:          r.IsPopular,
	}
}

// ProductResponse representation.
type ProductResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Detail             string    `json:"detail"`
	Price              float64   `json:"price"`
	Category           string    `json:"category"`
	BrandName          string    `json:"brandName"`
	Pattern            string    `json:"pattern"`
	Color              string    `json:"color"`
	DiscountRate       float64   `json:"discountRate"`
	PriceAfterDiscount float64   `json:"priceAfterDiscount"`
	Rating             float64   `json:"rating"`
	Images             []string  `json:"images"`
	IsInStock          bool      `json:"isInStock"`
	IsFeatured         bool      `json:"isFeatured"`
	IsPopular          bool      `json:"isPopular"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewProductResponse maps a product.
func NewProductResponse(p *domain.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Detail:             p.Detail,
		Price:              p.Price,
		Category:           p.CategoryID,
		BrandName:          p.BrandName,
		Pattern:            p.Pattern,
		Color:              p.Color,
		DiscountRate:       p.DiscountRate,
		PriceAfterDiscount: p.PriceAfterDiscount,
		Rating:             p.Rating,
		Images:             images,
		IsInStock:          p.IsInStock,
		IsFeatured:         p.IsFeatured,
		IsPopular:          p.IsPopular,
		CreatedAt:          p.CreatedAt,
	}
}

// NewProductList maps a slice of products.
func NewProductList(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
