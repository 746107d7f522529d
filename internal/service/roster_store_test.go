package service

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-roster/internal/model"
	"github.com/stemsi/exstem-roster/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *RosterStore {
	t.Helper()
	return NewRosterStore(repository.NewStudentRepository(), zerolog.Nop())
}

func seed(t *testing.T, s *RosterStore, grades ...string) {
	t.Helper()
	for i, g := range grades {
		_, err := s.Add(string(rune('A'+i)), "20", "Math", g)
		require.NoError(t, err)
	}
}

func grades(students []model.Student) []float64 {
	out := make([]float64, len(students))
	for i, st := range students {
		out[i] = st.Grade
	}
	return out
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alunos.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAdd_ParsesNumericFields(t *testing.T) {
	s := newStore(t)

	st, err := s.Add("Ana", "20", "Math", "8.5")
	require.NoError(t, err)
	assert.Equal(t, model.Student{Name: "Ana", Age: 20, Course: "Math", Grade: 8.5}, st)
	assert.Equal(t, []model.Student{st}, s.List())
}

func TestAdd_TrimsInput(t *testing.T) {
	s := newStore(t)

	st, err := s.Add("  Ana ", " 20 ", "\tMath\n", " 8.5 ")
	require.NoError(t, err)
	assert.Equal(t, model.Student{Name: "Ana", Age: 20, Course: "Math", Grade: 8.5}, st)
}

func TestAdd_InvalidNumberLeavesRosterUnchanged(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5")

	cases := []struct{ age, grade string }{
		{"twenty", "8.5"},
		{"20", "oito"},
		{"20.5", "8.5"},
		{"", "8.5"},
		{"20", ""},
		{"20", "NaN"},
		{"20", "Inf"},
		{"20", "1e400"},
	}
	for _, tc := range cases {
		_, err := s.Add("Ana", tc.age, "Math", tc.grade)
		assert.ErrorIs(t, err, ErrInvalidNumber, "age=%q grade=%q", tc.age, tc.grade)
	}
	assert.Equal(t, 1, s.Len())
}

func TestAdd_AllowsDuplicatesAndEmptyText(t *testing.T) {
	s := newStore(t)

	_, err := s.Add("Ana", "20", "Math", "8.5")
	require.NoError(t, err)
	_, err = s.Add("Ana", "20", "Math", "8.5")
	require.NoError(t, err)
	_, err = s.Add("", "-1", "", "0")
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
}

func TestAddRecord(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.AddRecord(model.Student{Name: "Ana", Age: 20, Course: "Math", Grade: 8.5}))
	assert.ErrorIs(t, s.AddRecord(model.Student{Name: "Beto", Grade: math.NaN()}), ErrInvalidNumber)
	assert.ErrorIs(t, s.AddRecord(model.Student{Name: "Caio", Grade: math.Inf(1)}), ErrInvalidNumber)
	assert.Equal(t, 1, s.Len())
}

func TestList_IsSnapshot(t *testing.T) {
	s := newStore(t)
	assert.NotNil(t, s.List())
	assert.Empty(t, s.List())

	seed(t, s, "5", "7")

	first := s.List()
	second := s.List()
	assert.Equal(t, first, second)

	first[0].Name = "mutated"
	first[1].Grade = 0
	assert.Equal(t, second, s.List())
}

func TestFilterByMinimumGrade(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5.0", "7.0", "9.0")

	got, err := s.FilterByMinimumGrade("7.0")
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 9}, grades(got))
	assert.Equal(t, []string{"B", "C"}, []string{got[0].Name, got[1].Name})

	got, err = s.FilterByMinimumGrade(" 10 ")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = s.FilterByMinimumGrade("-inf")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestFilterByMinimumGrade_InvalidThreshold(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5.0", "7.0", "9.0")

	for _, in := range []string{"abc", "", "NaN"} {
		got, err := s.FilterByMinimumGrade(in)
		assert.ErrorIs(t, err, ErrInvalidNumber, in)
		assert.Empty(t, got)
	}
}

func TestFilterByMinimumGrade_ResultIsIndependent(t *testing.T) {
	s := newStore(t)
	seed(t, s, "8")

	got, err := s.FilterByMinimumGrade("0")
	require.NoError(t, err)
	got[0].Grade = 0

	assert.Equal(t, 8.0, s.List()[0].Grade)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newStore(t)
	_, err := s.Add("Ana", "20", "Math", "8.5")
	require.NoError(t, err)
	_, err = s.Add(`Silva, "Beto"`, "31", "Física", "9")
	require.NoError(t, err)
	_, err = s.Add("Caio", "19", "Math", "6.333333333333333")
	require.NoError(t, err)
	want := s.List()

	path := filepath.Join(t.TempDir(), "alunos.csv")
	require.NoError(t, s.Save(path))

	other := newStore(t)
	report, err := other.Load(path)
	require.NoError(t, err)
	assert.Equal(t, LoadReport{Loaded: 3, Dropped: 0}, report)
	assert.Equal(t, want, other.List())
}

func TestSave_UnwritablePath(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5")

	err := s.Save(filepath.Join(t.TempDir(), "missing", "alunos.csv"))
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, 1, s.Len())
}

func TestLoad_SchemaMismatchKeepsRoster(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5", "6")
	before := s.List()

	_, err := s.Load(writeFile(t, "Name,Age\nAna,20\n"))
	assert.ErrorIs(t, err, repository.ErrSchemaMismatch)
	assert.Equal(t, before, s.List())
}

func TestLoad_MissingFileKeepsRoster(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5")

	_, err := s.Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, s.Len())
}

func TestLoad_MalformedFileKeepsRoster(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5")

	_, err := s.Load(writeFile(t, "Nome,Idade,Curso,Nota Final\nAna,20,Math,8.5,x\n"))
	assert.ErrorIs(t, err, repository.ErrMalformedFile)
	assert.False(t, errors.Is(err, ErrIO))
	assert.Equal(t, 1, s.Len())
}

func TestLoad_DropsInvalidRows(t *testing.T) {
	s := newStore(t)
	seed(t, s, "1", "2", "3", "4")

	path := writeFile(t, "Nome,Idade,Curso,Nota Final\n"+
		"Ana,20,Math,8.5\n"+
		"Beto,abc,Math,7.0\n"+
		"Caio,22,History,6.0\n")

	report, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, LoadReport{Loaded: 2, Dropped: 1}, report)
	assert.Equal(t, []model.Student{
		{Name: "Ana", Age: 20, Course: "Math", Grade: 8.5},
		{Name: "Caio", Age: 22, Course: "History", Grade: 6},
	}, s.List())
}

func TestLoad_HeaderOnlyEmptiesRoster(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5")

	report, err := s.Load(writeFile(t, "Nome,Idade,Curso,Nota Final\n"))
	require.NoError(t, err)
	assert.Equal(t, LoadReport{}, report)
	assert.NotNil(t, s.List())
	assert.Empty(t, s.List())
}

func TestExport_WritesSelectionOnly(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5.0", "7.0", "9.0")

	selection, err := s.FilterByMinimumGrade("7")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "relatorio.csv")
	require.NoError(t, s.Export(selection, path))
	assert.Equal(t, 3, s.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Nome,Idade,Curso,Nota Final\nB,20,Math,7.0\nC,20,Math,9.0\n", string(data))
}

func TestExport_UnwritablePath(t *testing.T) {
	s := newStore(t)

	err := s.Export(nil, filepath.Join(t.TempDir(), "missing", "r.csv"))
	assert.ErrorIs(t, err, ErrIO)
}

type failingFile struct{ err error }

func (f failingFile) ReadFile(string) (repository.ReadResult, error) {
	return repository.ReadResult{}, f.err
}

func (f failingFile) WriteFile(string, []model.Student) error { return f.err }

func TestRosterStore_WrapsRepositoryErrors(t *testing.T) {
	cause := errors.New("disk full")
	s := NewRosterStore(failingFile{err: cause}, zerolog.Nop())

	err := s.Save("x.csv")
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, cause)

	_, err = s.Load("x.csv")
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, cause)
}

func TestSaveLoad_RoundTripNormalizesCRLF(t *testing.T) {
	s := newStore(t)
	st, err := s.Add("Ana\r\nMaria", "20", "Math\r\r\nII", "8.5")
	require.NoError(t, err)
	assert.Equal(t, "Ana\nMaria", st.Name)
	assert.Equal(t, "Math\nII", st.Course)
	require.NoError(t, s.AddRecord(model.Student{Name: "Beto\r\n", Age: 21, Course: "lone\rcr", Grade: 7}))
	want := s.List()
	assert.Equal(t, "Beto\n", want[1].Name)

	path := filepath.Join(t.TempDir(), "alunos.csv")
	require.NoError(t, s.Save(path))

	other := newStore(t)
	_, err = other.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, other.List())
}

func TestLoad_DirectoryIsIOFailure(t *testing.T) {
	s := newStore(t)
	seed(t, s, "5")

	_, err := s.Load(t.TempDir())
	assert.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, repository.ErrMalformedFile)
	assert.Equal(t, 1, s.Len())
}
