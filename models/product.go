package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductSize string

const (
	SizeXS  ProductSize = "XS"
	SizeS   ProductSize = "S"
	SizeM   ProductSize = "M"
	SizeL   ProductSize = "L"
	SizeXL  ProductSize = "XL"
	SizeXXL ProductSize = "XXL"
)

// AllSizes is the full size chart; each product offers a subset of it.
var AllSizes = []ProductSize{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

func (s ProductSize) Valid() bool {
	for _, v := range AllSizes {
		if s == v {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryTShirts Category = "tshirts"
	CategoryHoodies Category = "hoodies"
	CategoryJeans   Category = "jeans"
	CategoryDresses Category = "dresses"
	CategoryShorts  Category = "shorts"
)

var AllCategories = []Category{CategoryTShirts, CategoryHoodies, CategoryJeans, CategoryDresses, CategoryShorts}

func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Review is appended to a product once and never edited or removed.
type Review struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Price       primitive.Decimal128 `bson:"price" json:"price"`
	Category    Category             `bson:"category" json:"category"`
	Images      []string             `bson:"images" json:"images"`
	Sizes       []ProductSize        `bson:"sizes" json:"sizes"`
	Colors      []string             `bson:"colors" json:"colors"`
	Stock       int                  `bson:"stock" json:"stock"`
	Rating      float64              `bson:"rating" json:"rating"`
	Reviews     []Review             `bson:"reviews" json:"reviews"`
	Featured    bool                 `bson:"featured" json:"featured"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// OffersSize reports whether the product is sold in the given size.
func (p *Product) OffersSize(size ProductSize) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
