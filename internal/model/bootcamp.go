package model

import "time"

// DefaultPhoto is stored when a bootcamp has no uploaded photo
const DefaultPhoto = "no-photo.jpg"

// Bootcamp is a training provider owned by a publisher
type Bootcamp struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address"`
	Careers       []string  `json:"careers"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi"`
	CreatedAt     time.Time `json:"createdAt"`
	User          string    `json:"user"`

	// Populated on reads
	Courses []*Course `json:"courses,omitempty"`
}

// BootcampInput holds the client-writable bootcamp fields
type BootcampInput struct {
	Name          string   `json:"name" validate:"required,max=50"`
	Description   string   `json:"description" validate:"required,max=500"`
	Website       string   `json:"website" validate:"omitempty,http_url"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"required"`
	Careers       []string `json:"careers" validate:"required,min=1,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	Photo         string   `json:"photo"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// Input returns the writable fields of the bootcamp
func (b *Bootcamp) Input() BootcampInput {
	return BootcampInput{
		Name:          b.Name,
		Description:   b.Description,
		Website:       b.Website,
		Phone:         b.Phone,
		Email:         b.Email,
		Address:       b.Address,
		Careers:       append([]string(nil), b.Careers...),
		Photo:         b.Photo,
		Housing:       b.Housing,
		JobAssistance: b.JobAssistance,
		JobGuarantee:  b.JobGuarantee,
		AcceptGi:      b.AcceptGi,
	}
}

// Apply copies writable fields onto the bootcamp and re-derives the slug
func (b *Bootcamp) Apply(in BootcampInput) {
	b.Name = in.Name
	b.Slug = Slugify(in.Name)
	b.Description = in.Description
	b.Website = in.Website
	b.Phone = in.Phone
	b.Email = in.Email
	b.Address = in.Address
	b.Careers = in.Careers
	b.Photo = in.Photo
	if b.Photo == "" {
		b.Photo = DefaultPhoto
	}
	b.Housing = in.Housing
	b.JobAssistance = in.JobAssistance
	b.JobGuarantee = in.JobGuarantee
	b.AcceptGi = in.AcceptGi
}
