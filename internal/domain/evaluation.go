package domain

import "time"

// Evaluation is a free-text clinical progress note ("evolução") authored by
// a collaborator for a patient under a clinical service. Content is
// markdown. Evaluations belong to exactly one patient and are returned by
// the server in creation order; the client never re-sorts them.
type Evaluation struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// The API schema spells the field with a single "l".
	Collaborator Collaborator `json:"colaborator"`
	Service      Service      `json:"service"`
}

// Collaborator is a staff user of the clinic (clinician or administrator).
type Collaborator struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsStaff  bool   `json:"isStaff"`
}

// Service is the clinical department under which an encounter is recorded.
type Service struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit Unit   `json:"unit"`
}

// Unit is the facility a service belongs to.
type Unit struct {
	Name string `json:"name"`
}
