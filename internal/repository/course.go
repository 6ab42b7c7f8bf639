package repository

import (
	"context"
	"fmt"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// CourseSchema lists the fields courses can be filtered, sorted and selected by
var CourseSchema = query.Schema{
	Fields: map[string]query.Field{
		"title":                query.StringField(),
		"description":          query.StringField(),
		"weeks":                query.NumberField(),
		"tuition":              query.NumberField(),
		"minimumSkill":         query.StringField(),
		"scholarshipAvailable": query.BoolField(),
		"createdAt":            query.TimeField(),
		"bootcamp":             query.RecordField(model.TableBootcamp),
		"user":                 query.RecordField(model.TableUser),
	},
	Fetch: []string{"bootcamp"},
}

// CourseRepository handles course data access
type CourseRepository struct {
	db database.Database
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db database.Database) *CourseRepository {
	return &CourseRepository{db: db}
}

func courseVars(c *model.Course) map[string]interface{} {
	return map[string]interface{}{
		"title":                c.Title,
		"description":          c.Description,
		"weeks":                c.Weeks,
		"tuition":              c.Tuition,
		"minimumSkill":         c.MinimumSkill,
		"scholarshipAvailable": c.ScholarshipAvailable,
	}
}

// Create inserts a course under c.Bootcamp owned by c.User
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	query := `
		CREATE course CONTENT {
			title: $title,
			description: $description,
			weeks: $weeks,
			tuition: $tuition,
			minimumSkill: $minimumSkill,
			scholarshipAvailable: $scholarshipAvailable,
			bootcamp: type::record($bootcamp),
			user: type::record($user),
			createdAt: time::now()
		}
	`
	vars := courseVars(c)
	vars["bootcamp"] = c.Bootcamp.ID
	vars["user"] = c.User

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	created, err := decodeRecord[model.Course](row)
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

// GetByID retrieves a course with its bootcamp summary
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	query := `SELECT * FROM type::record($id) FETCH bootcamp`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return notFoundAsNil[model.Course](nil, err)
	}
	return notFoundAsNil[model.Course](decodeRecord[model.Course](result))
}

// ListByBootcamp returns every course of a bootcamp, newest first
func (r *CourseRepository) ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Course, error) {
	query := `SELECT * FROM course WHERE bootcamp = type::record($bootcamp) ORDER BY createdAt DESC`
	vars := map[string]interface{}{"bootcamp": bootcampID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return decodeRecords(statementRows(result, 0), decodeRecord[model.Course])
}

// Update writes the writable fields of c and refreshes c from storage
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE type::record($id) MERGE {
			title: $title,
			description: $description,
			weeks: $weeks,
			tuition: $tuition,
			minimumSkill: $minimumSkill,
			scholarshipAvailable: $scholarshipAvailable
		} RETURN AFTER
	`
	vars := courseVars(c)
	vars["id"] = c.ID

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	updated, err := decodeRecord[model.Course](row)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// Delete removes a course
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// List returns one page of courses with their bootcamp summaries
func (r *CourseRepository) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Course], error) {
	return listRecords(ctx, r.db, model.TableCourse, CourseSchema, q, decodeRecord[model.Course])
}

// RecalculateAverageCost stores ceil(mean tuition / 10) * 10 on the bootcamp,
// or clears it when the bootcamp has no courses.
func (r *CourseRepository) RecalculateAverageCost(ctx context.Context, bootcampID string) error {
	query := `
		LET $costs = (SELECT VALUE tuition FROM course WHERE bootcamp = type::record($bootcamp));
		UPDATE type::record($bootcamp) SET averageCost =
			IF array::len($costs) > 0 THEN math::ceil(math::mean($costs) / 10) * 10 ELSE NONE END;
	`
	vars := map[string]interface{}{"bootcamp": bootcampID}

	return r.db.Execute(ctx, query, vars)
}
