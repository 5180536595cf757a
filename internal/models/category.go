package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name map[string]string  `json:"name" bson:"name" validate:"required"`

	// ParentID forms a forest over the flat collection. A nil ParentID is a
	// root; a dangling ParentID is traversed as an orphaned root.
	ParentID *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
	// ParentName is a denormalized copy of the parent's name, maintained by
	// the writer, never by the tree assembler.
	ParentName map[string]string `json:"parentName,omitempty" bson:"parentName,omitempty"`

	IsTopCategory  bool   `json:"isTopCategory" bson:"isTopCategory"`
	ShowOnHomepage bool   `json:"showOnHomepage" bson:"showOnHomepage"`
	Status         string `json:"status" bson:"status"`

	// Redundant membership index, not authoritative for product counts.
	Products []primitive.ObjectID `json:"products" bson:"products"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UpdateCategoryInput struct {
	Name           map[string]string    `json:"name" bson:"-"`
	ParentID       *primitive.ObjectID  `json:"parentId" bson:"parentId,omitempty"`
	ParentName     map[string]string    `json:"parentName" bson:"-"`
	IsTopCategory  *bool                `json:"isTopCategory" bson:"isTopCategory,omitempty"`
	ShowOnHomepage *bool                `json:"showOnHomepage" bson:"showOnHomepage,omitempty"`
	Status         string               `json:"status" bson:"status,omitempty"`
	Products       []primitive.ObjectID `json:"products" bson:"products,omitempty"`
	UpdatedAt      time.Time            `json:"-" bson:"updatedAt"`
}

// CategoryNode is one node of an assembled category forest.
type CategoryNode struct {
	ID           primitive.ObjectID `json:"id"`
	Name         map[string]string  `json:"name"`
	Children     []*CategoryNode    `json:"children"`
	ProductCount int64              `json:"productCount"`
	IsChecked    bool               `json:"isChecked"`
}
