package domain

import (
	"math"
	"time"
)

// Product is a catalog entry. CategoryID references Category.ID; the
// reference is checked on write but not maintained when categories go away.
type Product struct {
	ID                 string
	Title              string
	Detail             string
	Price              float64
	CategoryID         string
	BrandName          string
	Pattern            string
	Color              string
	DiscountRate       float64
	PriceAfterDiscount float64
	Rating             float64
	Images             []string
	IsInStock          bool
	IsFeatured         bool
	IsPopular          bool
	CreatedAt          time.Time
}

// ProductInput carries the fields accepted on product creation.
type ProductInput struct {
	Title              string
	Detail             string
	Price              float64
	CategoryID         string
	BrandName          string
	Pattern            string
	Color              string
	DiscountRate       float64
	PriceAfterDiscount *float64
	Rating             float64
	IsInStock          *bool
	IsFeatured         bool
	IsPopular          bool
}

// NewProduct builds an unsaved product from input. IsInStock defaults to true
// and PriceAfterDiscount is derived when the caller leaves it out.
func NewProduct(in ProductInput, images []string) *Product {
	p := &Product{
		Title:        in.Title,
		Detail:       in.Detail,
		Price:        in.Price,
		CategoryID:   in.CategoryID,
		BrandName:    in.BrandName,
		Pattern:      in.Pattern,
		Color:        in.Color,
		DiscountRate: in.DiscountRate,
		Rating:       in.Rating,
		Images:       images,
		IsInStock:    true,
		IsFeatured:   in.IsFeatured,
		IsPopular:    in.IsPopular,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if in.IsInStock != nil {
		p.IsInStock = *in.IsInStock
	}
	if in.PriceAfterDiscount != nil {
		p.PriceAfterDiscount = *in.PriceAfterDiscount
	} else {
		p.PriceAfterDiscount = DiscountedPrice(p.Price, p.DiscountRate)
	}
	return p
}

// ProductPatch lists the mutable product fields; nil means unchanged.
// Images is handled separately by the catalog since it owns blob cleanup.
type ProductPatch struct {
	Title              *string
	Detail             *string
	Price              *float64
	CategoryID         *string
	BrandName          *string
	Pattern            *string
	Color              *string
	DiscountRate       *float64
	PriceAfterDiscount *float64
	Rating             *float64
	IsInStock          *bool
	IsFeatured         *bool
	IsPopular          *bool
}

// Apply copies set fields onto p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Detail != nil {
		p.Detail = *patch.Detail
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.BrandName != nil {
		p.BrandName = *patch.BrandName
	}
	if patch.Pattern != nil {
		p.Pattern = *patch.Pattern
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.DiscountRate != nil {
		p.DiscountRate = *patch.DiscountRate
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	if patch.IsInStock != nil {
		p.IsInStock = *patch.IsInStock
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
	if patch.IsPopular != nil {
		p.IsPopular = *patch.IsPopular
	}
	switch {
	case patch.PriceAfterDiscount != nil:
		p.PriceAfterDiscount = *patch.PriceAfterDiscount
	case patch.Price != nil || patch.DiscountRate != nil:
		p.PriceAfterDiscount = DiscountedPrice(p.Price, p.DiscountRate)
	}
}

// DiscountedPrice applies a 0-100 percentage discount, rounded to cents.
func DiscountedPrice(price, discountRate float64) float64 {
	return math.Round(price*(100-discountRate)) / 100
}
