package repository

import (
	"context"
	"fmt"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// BootcampSchema lists the fields bootcamps can be filtered, sorted and selected by
var BootcampSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":          query.StringField(),
		"slug":          query.StringField(),
		"description":   query.StringField(),
		"website":       query.StringField(),
		"phone":         query.StringField(),
		"email":         query.StringField(),
		"address":       query.StringField(),
		"careers":       query.ListField(),
		"averageRating": query.NumberField(),
		"averageCost":   query.NumberField(),
		"photo":         query.StringField(),
		"housing":       query.BoolField(),
		"jobAssistance": query.BoolField(),
		"jobGuarantee":  query.BoolField(),
		"acceptGi":      query.BoolField(),
		"createdAt":     query.TimeField(),
		"user":          query.RecordField(model.TableUser),
	},
	Populate: &query.Populate{Field: "courses", Table: model.TableCourse, ForeignKey: "bootcamp"},
}

// BootcampRepository handles bootcamp data access
type BootcampRepository struct {
	db database.Database
}

// NewBootcampRepository creates a new bootcamp repository
func NewBootcampRepository(db database.Database) *BootcampRepository {
	return &BootcampRepository{db: db}
}

func bootcampVars(b *model.Bootcamp) map[string]interface{} {
	careers := b.Careers
	if careers == nil {
		careers = []string{}
	}
	return map[string]interface{}{
		"name":          b.Name,
		"slug":          b.Slug,
		"description":   b.Description,
		"website":       b.Website,
		"phone":         b.Phone,
		"email":         b.Email,
		"address":       b.Address,
		"careers":       careers,
		"photo":         b.Photo,
		"housing":       b.Housing,
		"jobAssistance": b.JobAssistance,
		"jobGuarantee":  b.JobGuarantee,
		"acceptGi":      b.AcceptGi,
	}
}

// Create inserts a bootcamp owned by b.User and fills in id and createdAt
func (r *BootcampRepository) Create(ctx context.Context, b *model.Bootcamp) error {
	query := `
		CREATE bootcamp CONTENT {
			name: $name,
			slug: $slug,
			description: $description,
			website: $website,
			phone: $phone,
			email: $email,
			address: $address,
			careers: $careers,
			photo: $photo,
			housing: $housing,
			jobAssistance: $jobAssistance,
			jobGuarantee: $jobGuarantee,
			acceptGi: $acceptGi,
			user: type::record($user),
			createdAt: time::now()
		}
	`
	vars := bootcampVars(b)
	vars["user"] = b.User

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("create bootcamp: %w", err)
	}
	created, err := decodeRecord[model.Bootcamp](row)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// GetByID retrieves a bootcamp with its courses
func (r *BootcampRepository) GetByID(ctx context.Context, id string) (*model.Bootcamp, error) {
	query := `
		SELECT *, (SELECT * FROM course WHERE bootcamp = $parent.id ORDER BY createdAt DESC) AS courses
		FROM type::record($id)
	`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return notFoundAsNil[model.Bootcamp](nil, err)
	}
	return notFoundAsNil[model.Bootcamp](decodeRecord[model.Bootcamp](result))
}

// CountByOwner returns how many bootcamps a user has published
func (r *BootcampRepository) CountByOwner(ctx context.Context, userID string) (int, error) {
	query := `SELECT count() AS count FROM bootcamp WHERE user = type::record($user) GROUP ALL`
	vars := map[string]interface{}{"user": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

// IDs returns the id of every bootcamp
func (r *BootcampRepository) IDs(ctx context.Context) ([]string, error) {
	result, err := r.db.Query(ctx, `SELECT VALUE id FROM bootcamp`, nil)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, convertSurrealID(row))
	}
	return ids, nil
}

// Update writes the writable fields of b and refreshes b from storage
func (r *BootcampRepository) Update(ctx context.Context, b *model.Bootcamp) error {
	query := `
		UPDATE type::record($id) MERGE {
			name: $name,
			slug: $slug,
			description: $description,
			website: $website,
			phone: $phone,
			email: $email,
			address: $address,
			careers: $careers,
			photo: $photo,
			housing: $housing,
			jobAssistance: $jobAssistance,
			jobGuarantee: $jobGuarantee,
			acceptGi: $acceptGi
		} RETURN AFTER
	`
	vars := bootcampVars(b)
	vars["id"] = b.ID

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("update bootcamp: %w", err)
	}
	updated, err := decodeRecord[model.Bootcamp](row)
	if err != nil {
		return err
	}
	*b = *updated
	return nil
}

// Delete removes a bootcamp together with its courses and reviews
func (r *BootcampRepository) Delete(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}

	return database.NewAtomicBatch().
		Add(`DELETE course WHERE bootcamp = type::record($id)`, vars).
		Add(`DELETE review WHERE bootcamp = type::record($id)`, vars).
		Add(`DELETE type::record($id)`, vars).
		Execute(ctx, r.db)
}

// List returns one page of bootcamps with their courses
func (r *BootcampRepository) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Bootcamp], error) {
	return listRecords(ctx, r.db, model.TableBootcamp, BootcampSchema, q, decodeRecord[model.Bootcamp])
}
