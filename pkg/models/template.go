package models

import "time"

// Template is a parameterized subject/body pair used to compose inquiry
// emails. Subject and body may contain {placeholder} tokens; see the render
// package for the recognized set. At most one template is flagged default.
type Template struct {
	ID        string    `db:"id" json:"template_id"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
