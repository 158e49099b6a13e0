package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/catalog-service/internal/domain"
	"github.com/storefront/catalog-service/internal/persistence"
)

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	ListFeatured(ctx context.Context) ([]domain.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	// RepresentativesPerCategory returns up to perCategory products of every
	// category that has products, ordered by (category, id).
	RepresentativesPerCategory(ctx context.Context, perCategory int) ([]domain.Product, error)
}

type productDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Title              string             `bson:"title"`
	Detail             string             `bson:"detail"`
	Price              float64            `bson:"price"`
	Category           primitive.ObjectID `bson:"category"`
	BrandName          string             `bson:"brandName"`
	Pattern            string             `bson:"pattern"`
	Color              string             `bson:"color"`
	DiscountRate       float64            `bson:"discountRate"`
	PriceAfterDiscount float64            `bson:"priceAfterDiscount"`
	Rating             float64            `bson:"rating"`
	Images             []string           `bson:"images"`
	IsInStock          bool               `bson:"isInStock"`
	IsFeatured         bool               `bson:"isFeatured"`
	IsPopular          bool               `bson:"isPopular"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
}

func (d productDocument) toDomain() domain.Product {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return domain.Product{
		ID:                 d.ID.Hex(),
		Title:              d.Title,
		Detail:             d.Detail,
		Price:              d.Price,
		CategoryID:         d.Category.Hex(),
		BrandName:          d.BrandName,
		Pattern:            d.Pattern,
		Color:              d.Color,
		DiscountRate:       d.DiscountRate,
		PriceAfterDiscount: d.PriceAfterDiscount,
		Rating:             d.Rating,
		Images:             images,
		IsInStock:          d.IsInStock,
		IsFeatured:         d.IsFeatured,
		IsPopular:          d.IsPopular,
		CreatedAt:          d.CreatedAt,
	}
}

// mutableFields is the $set body shared by create and update.
func mutableFields(p *domain.Product, category primitive.ObjectID) bson.M {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return bson.M{
		"title":              p.Title,
		"detail":             p.Detail,
		"price":              p.Price,
		"category":           category,
		"brandName":          p.BrandName,
		"pattern":            p.Pattern,
		"color":              p.Color,
		"discountRate":       p.DiscountRate,
		"priceAfterDiscount": p.PriceAfterDiscount,
		"rating":             p.Rating,
		"images":             images,
		"isInStock":          p.IsInStock,
		"isFeatured":         p.IsFeatured,
		"isPopular":          p.IsPopular,
	}
}

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository instantiates repository.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{coll: db.Collection(persistence.ProductsCollection)}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	category, err := objectID(product.CategoryID)
	if err != nil {
		return err
	}
	id := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := mutableFields(product, category)
	doc["_id"] = id
	doc["createdAt"] = now
	doc["updatedAt"] = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	product.ID = id.Hex()
	product.CreatedAt = now
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	oid, err := objectID(product.ID)
	if err != nil {
		return err
	}
	category, err := objectID(product.CategoryID)
	if err != nil {
		return err
	}
	set := mutableFields(product, category)
	set["updatedAt"] = time.Now().UTC()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	product := doc.toDomain()
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	category, err := objectID(categoryID)
	if err != nil {
		return []domain.Product{}, nil
	}
	return r.find(ctx, bson.M{"category": category})
}

func (r *productRepository) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	return r.find(ctx, bson.M{"isFeatured": true})
}

func (r *productRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	category, err := objectID(categoryID)
	if err != nil {
		return 0, nil
	}
	return r.coll.CountDocuments(ctx, bson.M{"category": category})
}

func (r *productRepository) RepresentativesPerCategory(ctx context.Context, perCategory int) ([]domain.Product, error) {
	if perCategory <= 0 {
		return []domain.Product{}, nil
	}
	cursor, err := r.coll.Aggregate(ctx, representativesPipeline(perCategory), options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// representativesPipeline sorts by (category, _id), groups per category,
// keeps the first perCategory members, and flattens them back into plain
// product documents.
func representativesPipeline(perCategory int) mongo.Pipeline {
	byCategoryThenID := bson.D{{Key: "category", Value: 1}, {Key: "_id", Value: 1}}
	return mongo.Pipeline{
		{{Key: "$sort", Value: byCategoryThenID}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "products", Value: bson.D{{Key: "$push", Value: "$$ROOT"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "products", Value: bson.D{{Key: "$slice", Value: bson.A{"$products", perCategory}}}},
		}}},
		{{Key: "$unwind", Value: "$products"}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$products"}}}},
		{{Key: "$sort", Value: byCategoryThenID}},
	}
}

func (r *productRepository) find(ctx context.Context, filter bson.M) ([]domain.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]domain.Product, error) {
	defer cursor.Close(ctx)

	result := []domain.Product{}
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toDomain())
	}
	return result, cursor.Err()
}
