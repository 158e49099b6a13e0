package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestRepresentativesPerCategory_OnePerCategory(t *testing.T) {
	products := []Product{
		{ID: "3", CategoryID: "A"},
		{ID: "2", CategoryID: "B"},
		{ID: "1", CategoryID: "A"},
	}

	got := RepresentativesPerCategory(products, 1)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"1", "2"}, ids(got))
	assert.Equal(t, "A", got[0].CategoryID)
	assert.Equal(t, "B", got[1].CategoryID)
	assert.Equal(t, "3", products[0].ID, "input must not be reordered")
}

func TestRepresentativesPerCategory_TwoPerCategory(t *testing.T) {
	products := []Product{
		{ID: "5", CategoryID: "A"},
		{ID: "4", CategoryID: "A"},
		{ID: "9", CategoryID: "A"},
		{ID: "7", CategoryID: "C"},
		{ID: "1", CategoryID: "B"},
		{ID: "2", CategoryID: "B"},
	}

	got := RepresentativesPerCategory(products, 2)

	assert.Equal(t, []string{"4", "5", "1", "2", "7"}, ids(got))

	perCategory := map[string]int{}
	for _, p := range got {
		perCategory[p.CategoryID]++
	}
	assert.Equal(t, map[string]int{"A": 2, "B": 2, "C": 1}, perCategory)
}

func TestRepresentativesPerCategory_Idempotent(t *testing.T) {
	products := []Product{
		{ID: "b", CategoryID: "x"},
		{ID: "a", CategoryID: "x"},
		{ID: "c", CategoryID: "y"},
	}
	once := RepresentativesPerCategory(products, 2)
	twice := RepresentativesPerCategory(once, 2)
	assert.Equal(t, once, twice)
}

func TestRepresentativesPerCategory_Empty(t *testing.T) {
	assert.Empty(t, RepresentativesPerCategory(nil, 1))
	assert.Empty(t, RepresentativesPerCategory([]Product{{ID: "1", CategoryID: "A"}}, 0))
}

func TestFilterProducts_ColorIgnoresCase(t *testing.T) {
	products := []Product{
		{ID: "1", Color: "Red"},
		{ID: "2", Color: "blue"},
		{ID: "3", Color: "RED"},
		{ID: "4", Color: "reddish"},
	}
	got := FilterProducts(products, ByColor("red"))
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestFilterProducts_ColorAndPatternCompose(t *testing.T) {
	products := []Product{
		{ID: "1", Color: "red", Pattern: "striped"},
		{ID: "2", Color: "red", Pattern: "plain"},
		{ID: "3", Color: "blue", Pattern: "Striped"},
	}
	q := ProductQuery{Color: "Red", Pattern: "STRIPED"}
	got := FilterProducts(products, q.AttributeFilters()...)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterProducts_CategoryAndColorCommute(t *testing.T) {
	products := []Product{
		{ID: "1", CategoryID: "A", Color: "red"},
		{ID: "2", CategoryID: "A", Color: "green"},
		{ID: "3", CategoryID: "B", Color: "Red"},
		{ID: "4", CategoryID: "A", Color: "RED"},
	}

	categoryFirst := FilterProducts(FilterProducts(products, ByCategory("A")), ByColor("red"))
	colorFirst := FilterProducts(FilterProducts(products, ByColor("red")), ByCategory("A"))

	assert.Equal(t, categoryFirst, colorFirst)
	assert.Equal(t, []string{"1", "4"}, ids(categoryFirst))
}

func TestFilterProducts_NoPredicatesKeepsAll(t *testing.T) {
	products := []Product{{ID: "1"}, {ID: "2"}}
	assert.Equal(t, products, FilterProducts(products))
}

func TestNewProduct_Defaults(t *testing.T) {
	p := NewProduct(ProductInput{Title: "Shirt", Price: 200, DiscountRate: 10, CategoryID: "c1"}, nil)

	assert.True(t, p.IsInStock)
	assert.Equal(t, 180.0, p.PriceAfterDiscount)
	assert.NotNil(t, p.Images)
	assert.Empty(t, p.Images)
}

func TestNewProduct_ExplicitValuesWin(t *testing.T) {
	inStock := false
	after := 99.5
	p := NewProduct(ProductInput{Price: 200, DiscountRate: 10, IsInStock: &inStock, PriceAfterDiscount: &after}, []string{"u1"})

	assert.False(t, p.IsInStock)
	assert.Equal(t, 99.5, p.PriceAfterDiscount)
	assert.Equal(t, []string{"u1"}, p.Images)
}

func TestProductPatch_Apply(t *testing.T) {
	p := &Product{Title: "old", Price: 100, DiscountRate: 0, PriceAfterDiscount: 100, Color: "red"}
	title := "new"
	discount := 25.0

	ProductPatch{Title: &title, DiscountRate: &discount}.Apply(p)

	assert.Equal(t, "new", p.Title)
	assert.Equal(t, 75.0, p.PriceAfterDiscount)
	assert.Equal(t, "red", p.Color)
}

func TestCategoryPatch(t *testing.T) {
	c := &Category{Name: "Shoes", Description: "d"}
	assert.True(t, CategoryPatch{}.IsEmpty())

	name := "Boots"
	CategoryPatch{Name: &name}.Apply(c)
	assert.Equal(t, "Boots", c.Name)
	assert.Equal(t, "d", c.Description)
}
