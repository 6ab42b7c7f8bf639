package repository

import (
	"context"
	"fmt"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// ReviewSchema lists the fields reviews can be filtered, sorted and selected by
var ReviewSchema = query.Schema{
	Fields: map[string]query.Field{
		"title":     query.StringField(),
		"text":      query.StringField(),
		"rating":    query.NumberField(),
		"createdAt": query.TimeField(),
		"bootcamp":  query.RecordField(model.TableBootcamp),
		"user":      query.RecordField(model.TableUser),
	},
	Fetch: []string{"bootcamp"},
}

// ReviewRepository handles review data access
type ReviewRepository struct {
	db database.Database
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db database.Database) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. A second review of the same bootcamp by the same
// user fails with database.ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		CREATE review CONTENT {
			title: $title,
			text: $text,
			rating: $rating,
			bootcamp: type::record($bootcamp),
			user: type::record($user),
			createdAt: time::now()
		}
	`
	vars := map[string]interface{}{
		"title":    review.Title,
		"text":     review.Text,
		"rating":   review.Rating,
		"bootcamp": review.Bootcamp.ID,
		"user":     review.User,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	created, err := decodeRecord[model.Review](row)
	if err != nil {
		return err
	}
	*review = *created
	return nil
}

// GetByID retrieves a review with its bootcamp summary
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	query := `SELECT * FROM type::record($id) FETCH bootcamp`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return notFoundAsNil[model.Review](nil, err)
	}
	return notFoundAsNil[model.Review](decodeRecord[model.Review](result))
}

// ListByBootcamp returns every review of a bootcamp, newest first
func (r *ReviewRepository) ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Review, error) {
	query := `SELECT * FROM review WHERE bootcamp = type::record($bootcamp) ORDER BY createdAt DESC`
	vars := map[string]interface{}{"bootcamp": bootcampID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return decodeRecords(statementRows(result, 0), decodeRecord[model.Review])
}

// Update writes the writable fields of review and refreshes it from storage
func (r *ReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE type::record($id) MERGE {
			title: $title,
			text: $text,
			rating: $rating
		} RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":     review.ID,
		"title":  review.Title,
		"text":   review.Text,
		"rating": review.Rating,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	updated, err := decodeRecord[model.Review](row)
	if err != nil {
		return err
	}
	*review = *updated
	return nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// List returns one page of reviews with their bootcamp summaries
func (r *ReviewRepository) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Review], error) {
	return listRecords(ctx, r.db, model.TableReview, ReviewSchema, q, decodeRecord[model.Review])
}

// RecalculateAverageRating stores the mean rating on the bootcamp, or
// clears it when the bootcamp has no reviews.
func (r *ReviewRepository) RecalculateAverageRating(ctx context.Context, bootcampID string) error {
	query := `
		LET $ratings = (SELECT VALUE rating FROM review WHERE bootcamp = type::record($bootcamp));
		UPDATE type::record($bootcamp) SET averageRating =
			IF array::len($ratings) > 0 THEN math::mean($ratings) ELSE NONE END;
	`
	vars := map[string]interface{}{"bootcamp": bootcampID}

	return r.db.Execute(ctx, query, vars)
}
