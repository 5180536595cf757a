package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStatus string

const (
	ProductStatusShow ProductStatus = "show"
	ProductStatusHide ProductStatus = "hide"
)

// Prices is the single price triple of a simple (non-combination) product.
type Prices struct {
	OriginalPrice float64 `json:"originalPrice" bson:"originalPrice"`
	Price         float64 `json:"price" bson:"price"`
	Discount      float64 `json:"discount" bson:"discount"`
}

// VariantFragment is one raw option-combination sub-document. Keys are either
// 24-hex attribute identifiers (the selected option id for that axis) or plain
// fields such as price, originalPrice, quantity and image.
type VariantFragment map[string]interface{}

// VariantCombination is one accumulated record produced by the variant
// grouper: the seed axis value plus every merged field. Other-axis keys hold
// deduplicated lists of co-occurring option ids.
type VariantCombination map[string]interface{}

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserName  string             `json:"userName" bson:"userName"`
	Rating    int                `json:"rating" bson:"rating" validate:"omitempty,min=1,max=5"`
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Product struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Basic Info (title/description keyed by locale, name is the raw fallback)
	Name             string            `json:"name" bson:"name" validate:"required"`
	Title            map[string]string `json:"title" bson:"title"`
	Description      map[string]string `json:"description" bson:"description"`
	ShortDescription map[string]string `json:"shortDescription" bson:"shortDescription"`
	SKU              string            `json:"sku" bson:"sku"`
	Brand            string            `json:"brand" bson:"brand"`
	Unit             string            `json:"unit" bson:"unit"`

	// Media
	Images []string `json:"images" bson:"images"`

	// Pricing. When IsCombination is true the Variants carry the prices and
	// the product-level triple is ignored.
	Prices        Prices            `json:"prices" bson:"prices"`
	IsCombination bool              `json:"isCombination" bson:"isCombination"`
	Variants      []VariantFragment `json:"variants" bson:"variants"`

	// Inventory
	Stock     int `json:"stock" bson:"stock" validate:"gte=0"`
	SellCount int `json:"sellCount" bson:"sellCount"`

	// Promotion flags are numeric counters, not booleans
	Featured    int        `json:"featured" bson:"featured"`
	Promotional int        `json:"promotional" bson:"promotional"`
	DateToPromo *time.Time `json:"dateToPromo,omitempty" bson:"dateToPromo,omitempty"`

	Status ProductStatus `json:"status" bson:"status"`

	// Categorization
	Categories   []primitive.ObjectID `json:"categories" bson:"categories"`
	MainCategory primitive.ObjectID   `json:"mainCategory,omitempty" bson:"mainCategory,omitempty"`
	Tags         []primitive.ObjectID `json:"tags" bson:"tags"`

	Owner string `json:"owner" bson:"owner"`

	// Analytics
	Rating  float64  `json:"rating" bson:"rating"`
	Reviews []Review `json:"reviews" bson:"reviews"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	// Derived by the search pipeline, never persisted.
	GroupedVariants map[string][]VariantCombination `json:"groupedVariants,omitempty" bson:"-"`
}

// UpdateProductInput is a partial update. Locale maps are merged key by key
// into the stored document instead of replacing it wholesale.
type UpdateProductInput struct {
	Name             string            `json:"name" bson:"name,omitempty"`
	Title            map[string]string `json:"title" bson:"-"`
	Description      map[string]string `json:"description" bson:"-"`
	ShortDescription map[string]string `json:"shortDescription" bson:"-"`
	SKU              string            `json:"sku" bson:"sku,omitempty"`
	Brand            string            `json:"brand" bson:"brand,omitempty"`
	Unit             string            `json:"unit" bson:"unit,omitempty"`
	Images           []string          `json:"images" bson:"images,omitempty"`

	Prices        *Prices           `json:"prices" bson:"prices,omitempty"`
	IsCombination *bool             `json:"isCombination" bson:"isCombination,omitempty"`
	Variants      []VariantFragment `json:"variants" bson:"variants,omitempty"`

	Stock       *int       `json:"stock" bson:"stock,omitempty"`
	Featured    *int       `json:"featured" bson:"featured,omitempty"`
	Promotional *int       `json:"promotional" bson:"promotional,omitempty"`
	DateToPromo *time.Time `json:"dateToPromo" bson:"dateToPromo,omitempty"`

	Status ProductStatus `json:"status" bson:"status,omitempty" validate:"omitempty,oneof=show hide"`

	Categories   []primitive.ObjectID `json:"categories" bson:"categories,omitempty"`
	MainCategory *primitive.ObjectID  `json:"mainCategory" bson:"mainCategory,omitempty"`
	Tags         []primitive.ObjectID `json:"tags" bson:"tags,omitempty"`

	UpdatedAt time.Time `json:"-" bson:"updatedAt"`
}
