package model

import "time"

// Review is a user's rating of a bootcamp
type Review struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Text      string      `json:"text"`
	Rating    int         `json:"rating"`
	CreatedAt time.Time   `json:"createdAt"`
	Bootcamp  BootcampRef `json:"bootcamp"`
	User      string      `json:"user"`
}

// ReviewInput holds the client-writable review fields
type ReviewInput struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=10"`
}

// Input returns the writable fields of the review
func (r *Review) Input() ReviewInput {
	return ReviewInput{Title: r.Title, Text: r.Text, Rating: r.Rating}
}

// Apply copies writable fields onto the review
func (r *Review) Apply(in ReviewInput) {
	r.Title = in.Title
	r.Text = in.Text
	r.Rating = in.Rating
}
