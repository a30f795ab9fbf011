// Package records implements the patient and progress-note operations of
// the records API, together with the optimistic reconciliation contract:
// every mutation returns the server's created/updated/deleted flag, and
// visible state changes only when that flag confirms a change. Failures
// leave local state exactly as it was before the call.
package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lnclinic/prontuario/internal/domain"
	"github.com/lnclinic/prontuario/internal/graphql"
	"github.com/lnclinic/prontuario/internal/session"
)

// PatientCache is the optional local read-through store for offline
// listing. Implementations must never be treated as authoritative.
type PatientCache interface {
	UpsertPatients(patients []domain.Patient) error
	ListPatients(search string, limit int) ([]domain.Patient, error)
	GetPatient(id string) (*domain.Patient, error)
}

// Client executes record operations with the current session's token.
type Client struct {
	gql     *graphql.Client
	session *session.Manager
	cache   PatientCache // may be nil
	log     *slog.Logger
}

// NewClient creates a records client. cache may be nil to disable the
// offline read-through store.
func NewClient(gql *graphql.Client, sess *session.Manager, cache PatientCache, logger *slog.Logger) *Client {
	return &Client{
		gql:     gql,
		session: sess,
		cache:   cache,
		log:     logger.With("component", "records"),
	}
}

// PatientPage is one page of the patient list.
type PatientPage struct {
	Patients        []domain.Patient
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

// PatientRecord is a patient together with their progress notes, in the
// order the server returned them.
type PatientRecord struct {
	Patient     domain.Patient
	Evaluations []domain.Evaluation
}

// PatientInput carries the fields of the create and edit forms. FullName
// and BirthDate are required; the rest are optional.
type PatientInput struct {
	FullName  string
	BirthDate time.Time
	CPF       string
	Email     string
	Phone     string
}

func (in PatientInput) validate() error {
	var fields []domain.FieldError
	if in.FullName == "" {
		fields = append(fields, domain.FieldError{Field: "fullName", Message: "must not be empty"})
	}
	if in.BirthDate.IsZero() {
		fields = append(fields, domain.FieldError{Field: "birthDate", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Errors: fields}
	}
	return nil
}

// ListPatients fetches a page of patients, filtered by a case-insensitive
// full-name search when search is non-empty. The search term is normalized
// the same way names are stored. Results are written through to the cache.
func (c *Client) ListPatients(ctx context.Context, search string, first int) (*PatientPage, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"first": first}
	if search != "" {
		variables["fullName"] = domain.NormalizeFullName(search)
	}

	var payload struct {
		AllPatients struct {
			Edges []struct {
				Node domain.Patient `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage     bool   `json:"hasNextPage"`
				HasPreviousPage bool   `json:"hasPreviousPage"`
				StartCursor     string `json:"startCursor"`
				EndCursor       string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"allPatients"`
	}
	if err := c.gql.Do(ctx, allPatientsOp, variables, token, &payload); err != nil {
		return nil, fmt.Errorf("records: list patients: %w", err)
	}

	page := &PatientPage{
		Patients:        make([]domain.Patient, 0, len(payload.AllPatients.Edges)),
		HasNextPage:     payload.AllPatients.PageInfo.HasNextPage,
		HasPreviousPage: payload.AllPatients.PageInfo.HasPreviousPage,
		StartCursor:     payload.AllPatients.PageInfo.StartCursor,
		EndCursor:       payload.AllPatients.PageInfo.EndCursor,
	}
	for _, edge := range payload.AllPatients.Edges {
		page.Patients = append(page.Patients, edge.Node)
	}

	c.cachePatients(ctx, page.Patients)

	return page, nil
}

// ListPatientsOffline serves the patient list from the local cache, for use
// when the API is unreachable. Returns whatever was last synced.
func (c *Client) ListPatientsOffline(search string, first int) ([]domain.Patient, error) {
	if c.cache == nil {
		return nil, fmt.Errorf("records: offline cache is disabled")
	}
	patients, err := c.cache.ListPatients(domain.NormalizeFullName(search), first)
	if err != nil {
		return nil, fmt.Errorf("records: list patients offline: %w", err)
	}
	return patients, nil
}

// GetPatient fetches one patient with their progress notes.
func (c *Client) GetPatient(ctx context.Context, id string) (*PatientRecord, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	var payload struct {
		Patient *struct {
			domain.Patient
			Evaluations struct {
				Edges []struct {
					Node domain.Evaluation `json:"node"`
				} `json:"edges"`
			} `json:"evaluations"`
		} `json:"patient"`
	}
	if err := c.gql.Do(ctx, patientOp, map[string]any{"id": id}, token, &payload); err != nil {
		return nil, fmt.Errorf("records: get patient: %w", err)
	}
	if payload.Patient == nil {
		return nil, fmt.Errorf("records: patient %s: %w", id, domain.ErrNotFound)
	}

	record := &PatientRecord{Patient: payload.Patient.Patient}
	for _, edge := range payload.Patient.Evaluations.Edges {
		record.Evaluations = append(record.Evaluations, edge.Node)
	}

	c.cachePatients(ctx, []domain.Patient{record.Patient})

	return record, nil
}

// CreatePatient creates a patient. The name is normalized and the email
// lowercased before submission; the birth date is sent as UTC midnight.
//
// The returned flag is the server's idempotence signal: false means an
// identical patient already exists, the returned value then identifies the
// existing record and nothing was written.
func (c *Client) CreatePatient(ctx context.Context, in PatientInput) (*domain.Patient, bool, error) {
	if err := in.validate(); err != nil {
		return nil, false, err
	}
	token, err := c.token()
	if err != nil {
		return nil, false, err
	}

	variables := map[string]any{
		"fullName":  domain.NormalizeFullName(in.FullName),
		"birthDate": birthDateUTC(in.BirthDate),
	}
	if in.CPF != "" {
		variables["cpf"] = in.CPF
	}
	if in.Email != "" {
		variables["email"] = domain.NormalizeEmail(in.Email)
	}
	if in.Phone != "" {
		variables["phone"] = in.Phone
	}

	var payload struct {
		CreatePatient *struct {
			Created bool            `json:"created"`
			Patient *domain.Patient `json:"patient"`
		} `json:"createPatient"`
	}
	if err := c.gql.Do(ctx, createPatientOp, variables, token, &payload); err != nil {
		return nil, false, fmt.Errorf("records: create patient: %w", err)
	}
	if payload.CreatePatient == nil || payload.CreatePatient.Patient == nil {
		return nil, false, fmt.Errorf("records: create patient: empty response")
	}

	c.log.InfoContext(ctx, "create patient",
		slog.String("patient_id", payload.CreatePatient.Patient.ID),
		slog.Bool("created", payload.CreatePatient.Created),
	)

	return payload.CreatePatient.Patient, payload.CreatePatient.Created, nil
}

// UpdatePatient edits a patient's demographic data. When the submitted
// fields match the currently displayed patient the call short-circuits with
// domain.ErrNoChange before any network I/O — a notice, not a failure.
// Otherwise it returns the server's updated flag.
func (c *Client) UpdatePatient(ctx context.Context, current domain.Patient, in PatientInput) (bool, error) {
	if err := in.validate(); err != nil {
		return false, err
	}

	fullName := domain.NormalizeFullName(in.FullName)
	email := domain.NormalizeEmail(in.Email)

	if fullName == current.FullName &&
		email == domain.NormalizeEmail(current.Email) &&
		in.CPF == current.CPF &&
		in.Phone == current.Phone &&
		sameDate(in.BirthDate, current.BirthDate) {
		return false, fmt.Errorf("records: update patient %s: %w", current.ID, domain.ErrNoChange)
	}

	token, err := c.token()
	if err != nil {
		return false, err
	}

	var payload struct {
		UpdatePatient *struct {
			Updated bool `json:"updated"`
		} `json:"updatePatient"`
	}
	err = c.gql.Do(ctx, updatePatientOp, map[string]any{
		"patientId": current.ID,
		"fullName":  fullName,
		"birthDate": birthDateUTC(in.BirthDate),
		"cpf":       in.CPF,
		"email":     email,
		"phone":     in.Phone,
	}, token, &payload)
	if err != nil {
		return false, fmt.Errorf("records: update patient: %w", err)
	}
	if payload.UpdatePatient == nil {
		return false, fmt.Errorf("records: update patient: empty response")
	}

	return payload.UpdatePatient.Updated, nil
}

// DeletePatient removes a patient and their whole history. It returns the
// server's confirmation flag so the caller decides what to do when the
// server reports nothing was deleted, instead of assuming success.
func (c *Client) DeletePatient(ctx context.Context, id string) (bool, error) {
	token, err := c.token()
	if err != nil {
		return false, err
	}

	var payload struct {
		DeletePatient *struct {
			Deleted bool `json:"deleted"`
		} `json:"deletePatient"`
	}
	if err := c.gql.Do(ctx, deletePatientOp, map[string]any{"patientId": id}, token, &payload); err != nil {
		return false, fmt.Errorf("records: delete patient: %w", err)
	}
	if payload.DeletePatient == nil {
		return false, fmt.Errorf("records: delete patient: empty response")
	}

	c.log.InfoContext(ctx, "delete patient",
		slog.String("patient_id", id),
		slog.Bool("deleted", payload.DeletePatient.Deleted),
	)

	return payload.DeletePatient.Deleted, nil
}

// CreateEvaluation records a progress note for a patient under a clinical
// service. Empty content is rejected locally before any network call. The
// returned flag is the server's duplicate signal: false means an identical
// note already exists and nothing was written — append the returned
// evaluation to a local list only when the flag is true.
func (c *Client) CreateEvaluation(ctx context.Context, patientID, serviceID, content string) (*domain.Evaluation, bool, error) {
	if content == "" {
		return nil, false, domain.NewValidationError("content", "must not be empty")
	}
	if serviceID == "" {
		return nil, false, domain.NewValidationError("service", "no clinical service selected")
	}
	token, err := c.token()
	if err != nil {
		return nil, false, err
	}

	var payload struct {
		CreateEvaluation *struct {
			Created    bool               `json:"created"`
			Evaluation *domain.Evaluation `json:"evaluation"`
		} `json:"createEvaluation"`
	}
	err = c.gql.Do(ctx, createEvaluationOp, map[string]any{
		"serviceId": serviceID,
		"patientId": patientID,
		"content":   content,
	}, token, &payload)
	if err != nil {
		return nil, false, fmt.Errorf("records: create evaluation: %w", err)
	}
	if payload.CreateEvaluation == nil {
		return nil, false, fmt.Errorf("records: create evaluation: empty response")
	}

	c.log.InfoContext(ctx, "create evaluation",
		slog.String("patient_id", patientID),
		slog.Bool("created", payload.CreateEvaluation.Created),
	)

	return payload.CreateEvaluation.Evaluation, payload.CreateEvaluation.Created, nil
}

func (c *Client) token() (string, error) {
	token := c.session.Token()
	if token == "" {
		return "", fmt.Errorf("records: %w", domain.ErrUnauthorized)
	}
	return token, nil
}

// cachePatients is best-effort write-through; a cache failure never fails
// the operation that fetched the data.
func (c *Client) cachePatients(ctx context.Context, patients []domain.Patient) {
	if c.cache == nil || len(patients) == 0 {
		return
	}
	if err := c.cache.UpsertPatients(patients); err != nil {
		c.log.WarnContext(ctx, "cache write failed", slog.String("error", err.Error()))
	}
}

// birthDateUTC renders the date portion as UTC midnight, which is how the
// forms submitted birth dates regardless of the local timezone.
func birthDateUTC(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
