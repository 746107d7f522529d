package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-roster/internal/model"
	"github.com/stemsi/exstem-roster/internal/repository"
)

var (
	ErrInvalidNumber = errors.New("invalid numeric field")
	ErrIO            = errors.New("roster file I/O failed")
)

// RosterFile persists rosters. Implemented by repository.StudentRepository.
type RosterFile interface {
	ReadFile(path string) (repository.ReadResult, error)
	WriteFile(path string, students []model.Student) error
}

// LoadReport summarizes a successful Load.
type LoadReport struct {
	Loaded  int `json:"loaded"`
	Dropped int `json:"dropped"`
}

// RosterStore owns the ordered, in-memory student roster. It is not safe for
// concurrent use; callers drive it from a single goroutine.
type RosterStore struct {
	students []model.Student
	file     RosterFile
	log      zerolog.Logger
}

// NewRosterStore creates an empty RosterStore backed by file.
func NewRosterStore(file RosterFile, log zerolog.Logger) *RosterStore {
	return &RosterStore{
		students: []model.Student{},
		file:     file,
		log:      log,
	}
}

// Add parses age and grade from raw input and appends a new student.
// Name and course are trimmed and CRLF line breaks become LF; otherwise they
// are stored as given.
func (s *RosterStore) Add(name, age, course, grade string) (model.Student, error) {
	n, err := strconv.Atoi(strings.TrimSpace(age))
	if err != nil {
		return model.Student{}, fmt.Errorf("%w: age %q", ErrInvalidNumber, age)
	}
	g, err := parseGrade(grade)
	if err != nil {
		return model.Student{}, fmt.Errorf("%w: grade %q", ErrInvalidNumber, grade)
	}

	st := model.Student{
		Name:   normalizeText(strings.TrimSpace(name)),
		Age:    n,
		Course: normalizeText(strings.TrimSpace(course)),
		Grade:  g,
	}
	s.students = append(s.students, st)
	return st, nil
}

// AddRecord appends an already typed student. CRLF line breaks in name and
// course become LF.
func (s *RosterStore) AddRecord(st model.Student) error {
	if math.IsNaN(st.Grade) || math.IsInf(st.Grade, 0) {
		return fmt.Errorf("%w: grade %v", ErrInvalidNumber, st.Grade)
	}
	st.Name = normalizeText(st.Name)
	st.Course = normalizeText(st.Course)
	s.students = append(s.students, st)
	return nil
}

// List returns a copy of the roster in insertion order.
func (s *RosterStore) List() []model.Student {
	out := make([]model.Student, len(s.students))
	copy(out, s.students)
	return out
}

// Len returns the number of students in the roster.
func (s *RosterStore) Len() int {
	return len(s.students)
}

// FilterByMinimumGrade returns the students whose grade is at least the
// parsed threshold, in roster order. An unparseable threshold yields
// ErrInvalidNumber rather than an empty result.
func (s *RosterStore) FilterByMinimumGrade(threshold string) ([]model.Student, error) {
	minGrade, err := strconv.ParseFloat(strings.TrimSpace(threshold), 64)
	if err != nil || math.IsNaN(minGrade) {
		return nil, fmt.Errorf("%w: minimum grade %q", ErrInvalidNumber, threshold)
	}

	out := []model.Student{}
	for _, st := range s.students {
		if st.Grade >= minGrade {
			out = append(out, st)
		}
	}
	return out, nil
}

// Save writes the whole roster to path, replacing any existing file.
func (s *RosterStore) Save(path string) error {
	if err := s.file.WriteFile(path, s.students); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Failed to save roster")
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	s.log.Info().Str("path", path).Int("students", len(s.students)).Msg("Roster saved")
	return nil
}

// Load replaces the roster with the contents of path. Rows with a
// non-numeric age or grade are skipped. If the file cannot be read or its
// columns do not match the schema, the current roster is kept.
func (s *RosterStore) Load(path string) (LoadReport, error) {
	res, err := s.file.ReadFile(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Failed to load roster")
		if errors.Is(err, repository.ErrSchemaMismatch) || errors.Is(err, repository.ErrMalformedFile) {
			return LoadReport{}, err
		}
		return LoadReport{}, fmt.Errorf("%w: %w", ErrIO, err)
	}

	s.students = res.Students
	if s.students == nil {
		s.students = []model.Student{}
	}

	report := LoadReport{Loaded: len(res.Students), Dropped: res.Dropped}
	evt := s.log.Info()
	if report.Dropped > 0 {
		evt = s.log.Warn()
	}
	evt.Str("path", path).
		Int("loaded", report.Loaded).
		Int("dropped", report.Dropped).
		Msg("Roster loaded")

	return report, nil
}

// Export writes selection to path in the roster file format without
// touching the store's own roster.
func (s *RosterStore) Export(selection []model.Student, path string) error {
	if err := s.file.WriteFile(path, selection); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Failed to export report")
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	s.log.Info().Str("path", path).Int("students", len(selection)).Msg("Report exported")
	return nil
}

func parseGrade(raw string) (float64, error) {
	g, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, strconv.ErrSyntax
	}
	return g, nil
}

// normalizeText folds CRLF into LF. CSV readers drop the CR of a CRLF pair
// even inside quoted fields, so stored text must not contain one.
func normalizeText(v string) string {
	for strings.Contains(v, "\r\n") {
		v = strings.ReplaceAll(v, "\r\n", "\n")
	}
	return v
}
