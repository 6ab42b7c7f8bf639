package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// In-memory repositories. Reads hand out copies so tests observe only what
// the service explicitly saved.

type mockBootcampRepo struct {
	bootcamps map[string]*model.Bootcamp
	seq       int
	createErr error
	idsErr    error
	updates   int
}

func newMockBootcampRepo() *mockBootcampRepo {
	return &mockBootcampRepo{bootcamps: make(map[string]*model.Bootcamp)}
}

func (m *mockBootcampRepo) Create(ctx context.Context, b *model.Bootcamp) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	b.ID = fmt.Sprintf("bootcamp:b%d", m.seq)
	b.CreatedAt = time.Now()
	cp := *b
	m.bootcamps[b.ID] = &cp
	return nil
}

func (m *mockBootcampRepo) GetByID(ctx context.Context, id string) (*model.Bootcamp, error) {
	b, ok := m.bootcamps[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *mockBootcampRepo) CountByOwner(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, b := range m.bootcamps {
		if b.User == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockBootcampRepo) Update(ctx context.Context, b *model.Bootcamp) error {
	m.updates++
	cp := *b
	m.bootcamps[b.ID] = &cp
	return nil
}

func (m *mockBootcampRepo) Delete(ctx context.Context, id string) error {
	delete(m.bootcamps, id)
	return nil
}

func (m *mockBootcampRepo) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Bootcamp], error) {
	page := &query.Page[model.Bootcamp]{}
	for _, b := range m.bootcamps {
		page.Items = append(page.Items, b)
	}
	page.Pagination = query.NewPagination(q.Page, q.Limit, len(page.Items))
	return page, nil
}

func (m *mockBootcampRepo) IDs(ctx context.Context) ([]string, error) {
	if m.idsErr != nil {
		return nil, m.idsErr
	}
	ids := make([]string, 0, len(m.bootcamps))
	for id := range m.bootcamps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockBootcampRepo) seed(b model.Bootcamp) *model.Bootcamp {
	m.seq++
	if b.ID == "" {
		b.ID = fmt.Sprintf("bootcamp:b%d", m.seq)
	}
	m.bootcamps[b.ID] = &b
	return &b
}

type mockCourseRepo struct {
	courses      map[string]*model.Course
	seq          int
	recalculated []string
	recalcErr    error
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(ctx context.Context, c *model.Course) error {
	m.seq++
	c.ID = fmt.Sprintf("course:c%d", m.seq)
	cp := *c
	m.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *mockCourseRepo) ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Course, error) {
	var result []*model.Course
	for _, c := range m.courses {
		if c.Bootcamp.ID == bootcampID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) Update(ctx context.Context, c *model.Course) error {
	cp := *c
	m.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Course], error) {
	page := &query.Page[model.Course]{}
	for _, c := range m.courses {
		page.Items = append(page.Items, c)
	}
	page.Pagination = query.NewPagination(q.Page, q.Limit, len(page.Items))
	return page, nil
}

func (m *mockCourseRepo) RecalculateAverageCost(ctx context.Context, bootcampID string) error {
	m.recalculated = append(m.recalculated, bootcampID)
	return m.recalcErr
}

func (m *mockCourseRepo) seed(c model.Course) *model.Course {
	m.seq++
	if c.ID == "" {
		c.ID = fmt.Sprintf("course:c%d", m.seq)
	}
	m.courses[c.ID] = &c
	return &c
}

type mockReviewRepo struct {
	reviews      map[string]*model.Review
	seq          int
	createErr    error
	recalculated []string
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[string]*model.Review)}
}

func (m *mockReviewRepo) Create(ctx context.Context, r *model.Review) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	r.ID = fmt.Sprintf("review:r%d", m.seq)
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockReviewRepo) ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Review, error) {
	var result []*model.Review
	for _, r := range m.reviews {
		if r.Bootcamp.ID == bootcampID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockReviewRepo) Update(ctx context.Context, r *model.Review) error {
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepo) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Review], error) {
	page := &query.Page[model.Review]{}
	for _, r := range m.reviews {
		page.Items = append(page.Items, r)
	}
	page.Pagination = query.NewPagination(q.Page, q.Limit, len(page.Items))
	return page, nil
}

func (m *mockReviewRepo) RecalculateAverageRating(ctx context.Context, bootcampID string) error {
	m.recalculated = append(m.recalculated, bootcampID)
	return nil
}

func (m *mockReviewRepo) seed(r model.Review) *model.Review {
	m.seq++
	if r.ID == "" {
		r.ID = fmt.Sprintf("review:r%d", m.seq)
	}
	m.reviews[r.ID] = &r
	return &r
}

type mockUserRepo struct {
	users     map[string]*model.User
	seq       int
	createErr error
	getErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	user.ID = fmt.Sprintf("user:u%d", m.seq)
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	stored, ok := m.users[user.ID]
	if !ok {
		return fmt.Errorf("no user %s", user.ID)
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.Role = user.Role
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	if u, ok := m.users[userID]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.User], error) {
	page := &query.Page[model.User]{}
	for _, u := range m.users {
		page.Items = append(page.Items, u)
	}
	page.Pagination = query.NewPagination(q.Page, q.Limit, len(page.Items))
	return page, nil
}

type failingRevocations struct {
	err error
}

func (f *failingRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	return f.err
}

func (f *failingRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, f.err
}

func (f *failingRevocations) Close() error { return nil }

// Fixtures

func publisher(id string) model.Principal {
	return model.Principal{ID: id, Role: model.RolePublisher}
}

func regularUser(id string) model.Principal {
	return model.Principal{ID: id, Role: model.RoleUser}
}

func admin(id string) model.Principal {
	return model.Principal{ID: id, Role: model.RoleAdmin}
}

func validBootcampInput() model.BootcampInput {
	return model.BootcampInput{
		Name:        "Devworks Bootcamp",
		Description: "Devworks is a full stack JavaScript Bootcamp",
		Website:     "https://devworks.com",
		Phone:       "(111) 111-1111",
		Email:       "enroll@devworks.com",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development", "UI/UX", "Business"},
		Housing:     true,
	}
}

func validCourseInput() model.CourseInput {
	return model.CourseInput{
		Title:        "Front End Web Development",
		Description:  "This course will provide you with all of the essentials",
		Weeks:        8,
		Tuition:      8000,
		MinimumSkill: "beginner",
	}
}

func validReviewInput() model.ReviewInput {
	return model.ReviewInput{
		Title:  "Learned a ton!",
		Text:   "I learned a lot at this bootcamp",
		Rating: 8,
	}
}
