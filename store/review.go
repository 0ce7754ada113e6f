package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/models"
)

// ReviewService appends reviews and keeps the product's aggregate rating in
// step. Nothing stops a user from reviewing the same product more than
// once; every submission counts toward the mean.
type ReviewService struct {
	catalog Catalog
}

func NewReviewService(catalog Catalog) *ReviewService {
	return &ReviewService{catalog: catalog}
}

// AddReview validates and appends a review, then the catalog recomputes the
// product's rating from the complete review list. Reviews are immutable
// once written.
func (s *ReviewService) AddReview(ctx context.Context, productID, userID primitive.ObjectID, rating int, comment string) (*models.Product, error) {
	var violations []string
	if rating < 1 || rating > 5 {
		violations = append(violations, fmt.Sprintf("rating must be between 1 and 5, got %d", rating))
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		violations = append(violations, "comment is required")
	}
	if len(violations) > 0 {
		return nil, &InputError{Violations: violations}
	}
	review := models.Review{
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	return s.catalog.AppendReview(ctx, productID, review)
}

// MeanRating recomputes a product rating from its complete review list, or
// 0 when there are none. A full recompute keeps the stored mean exact no
// matter how many reviews accumulate.
func MeanRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
