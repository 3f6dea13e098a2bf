package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// previousDir holds output files displaced by Commit until it succeeds.
const previousDir = ".previous"

// Staging collects output files in a hidden temporary directory next to their
// final location. Nothing appears in the output directory until Commit, so a
// run that fails part-way leaves no partial reports behind.
type Staging struct {
	dir     string
	tmp     string
	files   []string
	skipped []string
	claimed map[string]bool
}

// NewStaging creates the output directory if needed and a staging area inside it.
func NewStaging(dir string) (*Staging, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	tmp, err := os.MkdirTemp(dir, ".seqqc-staging-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Staging{dir: dir, tmp: tmp, claimed: make(map[string]bool)}, nil
}

// Path reserves name and returns the staged path to write it to. Each name
// can be reserved once.
func (s *Staging) Path(name string) (string, error) {
	if err := s.claim(name); err != nil {
		return "", err
	}
	s.files = append(s.files, name)
	return filepath.Join(s.tmp, name), nil
}

// Skip marks name as an artifact this run does not produce. Commit removes
// any file of that name left in the output directory by an earlier run.
func (s *Staging) Skip(name string) error {
	if err := s.claim(name); err != nil {
		return err
	}
	s.skipped = append(s.skipped, name)
	return nil
}

func (s *Staging) claim(name string) error {
	if name == "" || name == "." || name == ".." || name == previousDir || filepath.Base(name) != name {
		return fmt.Errorf("invalid output name %q", name)
	}
	if s.claimed[name] {
		return fmt.Errorf("output %s is already staged", name)
	}
	s.claimed[name] = true
	return nil
}

// WriteFile stages name, filling it with fn.
func (s *Staging) WriteFile(name string, fn func(f *os.File) error) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

// Files returns the final paths of every staged file, in staging order.
func (s *Staging) Files() []string {
	paths := make([]string, len(s.files))
	for i, name := range s.files {
		paths[i] = filepath.Join(s.dir, name)
	}
	return paths
}

// move records one change Commit made to the output directory.
type move struct {
	final  string
	backup string // where the previous file went, empty if there was none
	placed bool   // a staged file now sits at final
}

// Commit moves every staged file into the output directory, removes skipped
// names and drops the staging area. Files it replaces are set aside first;
// if any step fails they are put back and nothing new is left in place.
func (s *Staging) Commit() error {
	prev := filepath.Join(s.tmp, previousDir)
	if err := os.Mkdir(prev, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	var moves []move
	for _, name := range s.skipped {
		m, err := setAside(filepath.Join(s.dir, name), filepath.Join(prev, name))
		if err != nil {
			rollback(moves)
			return err
		}
		moves = append(moves, m)
	}
	for _, name := range s.files {
		m, err := setAside(filepath.Join(s.dir, name), filepath.Join(prev, name))
		if err != nil {
			rollback(moves)
			return err
		}
		moves = append(moves, m)
		if err := os.Rename(filepath.Join(s.tmp, name), m.final); err != nil {
			rollback(moves)
			return fmt.Errorf("failed to move %s into place: %w", name, err)
		}
		moves[len(moves)-1].placed = true
	}

	return os.RemoveAll(s.tmp)
}

// setAside moves an existing file at final to backup.
func setAside(final, backup string) (move, error) {
	m := move{final: final}
	if _, err := os.Lstat(final); err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("failed to inspect %s: %w", final, err)
	}
	if err := os.Rename(final, backup); err != nil {
		return m, fmt.Errorf("failed to replace %s: %w", final, err)
	}
	m.backup = backup
	return m, nil
}

// rollback undoes moves in reverse order.
func rollback(moves []move) {
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		if m.placed {
			os.Remove(m.final)
		}
		if m.backup != "" {
			os.Rename(m.backup, m.final)
		}
	}
}

// Discard drops every staged file.
func (s *Staging) Discard() error {
	s.files = nil
	s.skipped = nil
	return os.RemoveAll(s.tmp)
}
