package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tag struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   map[string]string  `json:"name" bson:"name" validate:"required"`
	Slug   string             `json:"slug" bson:"slug"`
	Status string             `json:"status" bson:"status"`

	Products []primitive.ObjectID `json:"products" bson:"products"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UpdateTagInput struct {
	Name      map[string]string    `json:"name" bson:"-"`
	Slug      string               `json:"slug" bson:"slug,omitempty"`
	Status    string               `json:"status" bson:"status,omitempty"`
	Products  []primitive.ObjectID `json:"products" bson:"products,omitempty"`
	UpdatedAt time.Time            `json:"-" bson:"updatedAt"`
}
