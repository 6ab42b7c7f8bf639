package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Course is a program offered by a bootcamp
type Course struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Weeks                int         `json:"weeks"`
	Tuition              float64     `json:"tuition"`
	MinimumSkill         string      `json:"minimumSkill"`
	ScholarshipAvailable bool        `json:"scholarshipAvailable"`
	CreatedAt            time.Time   `json:"createdAt"`
	Bootcamp             BootcampRef `json:"bootcamp"`
	User                 string      `json:"user"`
}

// CourseInput holds the client-writable course fields
type CourseInput struct {
	Title                string  `json:"title" validate:"required,max=100"`
	Description          string  `json:"description" validate:"required"`
	Weeks                int     `json:"weeks" validate:"required,min=1"`
	Tuition              float64 `json:"tuition" validate:"min=0"`
	MinimumSkill         string  `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

// Input returns the writable fields of the course
func (c *Course) Input() CourseInput {
	return CourseInput{
		Title:                c.Title,
		Description:          c.Description,
		Weeks:                c.Weeks,
		Tuition:              c.Tuition,
		MinimumSkill:         c.MinimumSkill,
		ScholarshipAvailable: c.ScholarshipAvailable,
	}
}

// Apply copies writable fields onto the course
func (c *Course) Apply(in CourseInput) {
	c.Title = in.Title
	c.Description = in.Description
	c.Weeks = in.Weeks
	c.Tuition = in.Tuition
	c.MinimumSkill = in.MinimumSkill
	c.ScholarshipAvailable = in.ScholarshipAvailable
}

// BootcampRef is the parent bootcamp of a course or review. Stored records
// hold only the id; reads that fetch the parent also fill name and
// description.
type BootcampRef struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts either a bare id string or a bootcamp object
func (r *BootcampRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	type plain BootcampRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = BootcampRef(p)
	return nil
}
