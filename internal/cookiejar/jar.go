// Package cookiejar persists the session cookie on disk.
//
// The browser original kept the bearer token in a single named cookie
// (7-day max-age, site-root path) plus one localStorage slot for the
// selected clinical service. Here both live in a small JSON state file,
// and cookie expiry is enforced on read since there is no browser to
// expire it for us.
package cookiejar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stateFileName = "state.json"

// Jar is a file-backed store for a single named cookie and a scratch
// preference slot. All methods re-read the file, so concurrent processes
// see last-write-wins semantics, same as a shared browser cookie jar.
type Jar struct {
	path       string
	cookieName string
}

type stateFile struct {
	Cookie      *cookieRecord `json:"cookie,omitempty"`
	Preferences preferences   `json:"preferences"`
}

type cookieRecord struct {
	Name          string    `json:"name"`
	Value         string    `json:"value"`
	Path          string    `json:"path"`
	SetAt         time.Time `json:"set_at"`
	MaxAgeSeconds int64     `json:"max_age_seconds"`
}

type preferences struct {
	ServiceID string `json:"service_id,omitempty"`
}

// New creates a Jar rooted at dir, creating the directory if needed.
func New(dir, cookieName string) (*Jar, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cookiejar: create state dir: %w", err)
	}
	return &Jar{
		path:       filepath.Join(dir, stateFileName),
		cookieName: cookieName,
	}, nil
}

// Read returns the stored token. The second return is false when no cookie
// is stored, the stored cookie has a different name, or its max-age has
// elapsed.
func (j *Jar) Read() (string, bool) {
	st, err := j.load()
	if err != nil || st.Cookie == nil {
		return "", false
	}
	c := st.Cookie
	if c.Name != j.cookieName || c.Value == "" {
		return "", false
	}
	if c.MaxAgeSeconds > 0 {
		expiry := c.SetAt.Add(time.Duration(c.MaxAgeSeconds) * time.Second)
		if time.Now().After(expiry) {
			return "", false
		}
	}
	return c.Value, true
}

// Write stores the token with the given max-age and path, replacing any
// previous cookie.
func (j *Jar) Write(token string, maxAge time.Duration, path string) error {
	st, err := j.load()
	if err != nil {
		return err
	}
	st.Cookie = &cookieRecord{
		Name:          j.cookieName,
		Value:         token,
		Path:          path,
		SetAt:         time.Now(),
		MaxAgeSeconds: int64(maxAge / time.Second),
	}
	return j.save(st)
}

// Clear deletes the cookie. Preferences survive so a fresh sign-in keeps
// the previously selected service.
func (j *Jar) Clear() error {
	st, err := j.load()
	if err != nil {
		return err
	}
	if st.Cookie == nil {
		return nil
	}
	st.Cookie = nil
	return j.save(st)
}

// ServiceID returns the stored clinical-service selection, if any.
func (j *Jar) ServiceID() (string, bool) {
	st, err := j.load()
	if err != nil || st.Preferences.ServiceID == "" {
		return "", false
	}
	return st.Preferences.ServiceID, true
}

// SetServiceID stores the clinical-service selection made at sign-in.
func (j *Jar) SetServiceID(id string) error {
	st, err := j.load()
	if err != nil {
		return err
	}
	st.Preferences.ServiceID = id
	return j.save(st)
}

func (j *Jar) load() (*stateFile, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return &stateFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cookiejar: read state: %w", err)
	}

	var st stateFile
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file behaves like an empty jar rather than
		// locking the user out of signing in again.
		return &stateFile{}, nil
	}
	return &st, nil
}

func (j *Jar) save(st *stateFile) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("cookiejar: encode state: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0o600); err != nil {
		return fmt.Errorf("cookiejar: write state: %w", err)
	}
	return nil
}
