package models

import "time"

// EmailAccount is a sender identity the operator sends inquiries from.
// Exactly one account in the collection is flagged main, and the collection
// is never allowed to become empty.
type EmailAccount struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Company   string    `db:"company" json:"company"`
	Phone     string    `db:"phone" json:"phone"`
	IsMain    bool      `db:"is_main" json:"isMain"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
