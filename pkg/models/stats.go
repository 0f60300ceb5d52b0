package models

// Stats are running counters mutated on every successful one-click send.
// Today is reset by an external daily rollover, not by this system.
type Stats struct {
	Sent    int `db:"sent" json:"sent"`
	Today   int `db:"today" json:"today"`
	Matched int `db:"matched" json:"matched"`
	Skipped int `db:"skipped" json:"skipped"`
}
