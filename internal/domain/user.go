package domain

// User is the authenticated account as returned by the sign-in mutation and
// the current-user query. It embeds the collaborator the account belongs to.
type User struct {
	ID string `json:"id"`
	// The API schema spells the field with a single "l".
	Collaborator UserCollaborator `json:"colaborator"`
	IsStaff      bool             `json:"isStaff"`
}

// UserCollaborator is the collaborator summary embedded in User.
type UserCollaborator struct {
	Name string `json:"name"`
}
