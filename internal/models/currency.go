package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Currency holds one exchange rate used by the storefront for price display.
type Currency struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code   string             `json:"code" bson:"code" validate:"required,len=3"`
	Title  map[string]string  `json:"title" bson:"title"`
	Rate   float64            `json:"rate" bson:"rate" validate:"gt=0"`
	Status string             `json:"status" bson:"status"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
