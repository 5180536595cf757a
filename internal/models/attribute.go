package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttributeOption is one selectable value on an attribute axis (e.g. "Red" on
// the color axis). Its id is what variant fragments reference.
type AttributeOption struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name map[string]string  `json:"name" bson:"name"`
}

// Attribute is one variation axis such as color or size.
type Attribute struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      map[string]string  `json:"name" bson:"name" validate:"required"`
	IsVisible bool               `json:"isVisible" bson:"isVisible"`
	Variants  []AttributeOption  `json:"variants" bson:"variants"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
