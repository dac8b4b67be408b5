package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleProfile() *Profile {
	return &Profile{
		Name:       "Ada Lovelace",
		Contact:    "ada@example.com",
		University: "University of London",
		Degree:     "BSc Mathematics",
		Courses:    "Algorithms, Distributed Systems",
		Skills:     "Go, PostgreSQL, Docker",
		Experience: []string{"Backend intern at Initech"},
		Projects:   []string{"Analytical engine emulator", "Job board scraper"},
	}
}

func TestFileLoadMissing(t *testing.T) {
	repo := NewFile(filepath.Join(t.TempDir(), "data", "user_profile.json"))

	_, err := repo.Load(context.Background())
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestFileSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "user_profile.json")
	repo := NewFile(path)

	want := sampleProfile()
	if err := repo.Save(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temporary file to be gone, got %v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestFileLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_profile.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	_, err := NewFile(path).Load(context.Background())
	if err == nil || errors.Is(err, ErrMissing) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSaveRejectsNamelessProfile(t *testing.T) {
	repo := NewFile(filepath.Join(t.TempDir(), "user_profile.json"))
	if err := repo.Save(context.Background(), &Profile{Skills: "Go"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestMemoryReturnsSnapshots(t *testing.T) {
	repo := NewMemory(nil)

	if _, err := repo.Load(context.Background()); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}

	p := sampleProfile()
	if err := repo.Save(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Projects[0] = "mutated"

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Projects[0] != "Analytical engine emulator" {
		t.Fatalf("expected stored profile to be isolated, got %q", got.Projects[0])
	}

	got.Experience[0] = "mutated"
	again, _ := repo.Load(context.Background())
	if again.Experience[0] != "Backend intern at Initech" {
		t.Fatalf("expected loaded profile to be a copy, got %q", again.Experience[0])
	}
}
