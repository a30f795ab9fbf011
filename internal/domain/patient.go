package domain

import "time"

// Patient is a clinic patient as returned by the records API.
// The API owns the record; the client holds a read-through copy and never
// treats its own state as authoritative. Age is computed server-side from
// the birth date.
//
// Optional fields (CPF, Email, Phone) decode to empty strings when the
// server returns null.
type Patient struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Age       int       `json:"age"`
	BirthDate time.Time `json:"birthDate"`
	CPF       string    `json:"cpf"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`

	// LatestEvaluation is populated only by the patient list query.
	// Nil means the patient has no recorded encounter yet.
	LatestEvaluation *time.Time `json:"latestEvaluation,omitempty"`
}
