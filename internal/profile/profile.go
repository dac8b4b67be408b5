package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrMissing is returned by Load when no profile has been saved yet.
var ErrMissing = errors.New("no saved user profile")

// Profile is the structured user data the CV is tailored from.
type Profile struct {
	Name       string   `json:"name"`
	Contact    string   `json:"contact,omitempty"`
	University string   `json:"university"`
	Degree     string   `json:"degree"`
	Courses    string   `json:"courses"`
	Skills     string   `json:"skills"`
	Experience []string `json:"experience"`
	Projects   []string `json:"projects"`
}

// Repository stores the single current profile.
type Repository interface {
	Load(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// Clone returns a deep copy so callers can hold an immutable snapshot.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Experience = append([]string(nil), p.Experience...)
	c.Projects = append([]string(nil), p.Projects...)
	return &c
}

// Validate reports the first required field that is blank.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("profile is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	return nil
}

// Memory keeps the profile in memory.
type Memory struct {
	mu      sync.RWMutex
	profile *Profile
}

// NewMemory returns a repository holding p, which may be nil.
func NewMemory(p *Profile) *Memory {
	return &Memory{profile: p.Clone()}
}

func (m *Memory) Load(context.Context) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return nil, ErrMissing
	}
	return m.profile.Clone(), nil
}

func (m *Memory) Save(_ context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = p.Clone()
	return nil
}
