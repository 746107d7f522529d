package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stemsi/exstem-roster/internal/model"
)

var (
	ErrSchemaMismatch = errors.New("roster file columns do not match the student schema")
	ErrMalformedFile  = errors.New("roster file is not valid CSV")
)

const utf8BOM = "\ufeff"

// StudentRepository reads and writes student rosters as CSV files.
type StudentRepository struct{}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

// ReadResult is the outcome of decoding a roster file.
type ReadResult struct {
	Students []model.Student
	// Dropped counts data rows skipped because age or grade could not be coerced.
	Dropped int
}

// ReadFile decodes the roster stored at path.
func (r *StudentRepository) ReadFile(path string) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ReadResult{}, fmt.Errorf("stat roster file: %w", err)
	}
	if info.IsDir() {
		return ReadResult{}, fmt.Errorf("open roster file: %s is a directory", path)
	}

	return Decode(f)
}

// WriteFile replaces the contents of path with the given students. Symlinks
// are followed and an existing file keeps its permissions. The data is
// written to a sibling temp file, synced and renamed into place, so a failed
// write never leaves a truncated roster behind.
func (r *StudentRepository) WriteFile(path string, students []model.Student) error {
	target, mode, exists, err := resolveTarget(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	tmp := filepath.Join(dir, "."+filepath.Base(target)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	fail := func(err error) error {
		f.Close()
		os.Remove(tmp)
		return err
	}

	// umask applies on create; an existing file keeps its exact mode
	if exists {
		if err := f.Chmod(mode); err != nil {
			return fail(fmt.Errorf("chmod temp file: %w", err))
		}
	}
	if err := Encode(f, students); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace roster file: %w", err)
	}
	return nil
}

// resolveTarget follows symlinks at path and checks that an existing target
// is a writable regular file. New files get mode 0644.
func resolveTarget(path string) (target string, mode os.FileMode, exists bool, err error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return path, 0o644, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("stat roster file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", 0, false, fmt.Errorf("roster file %s is not a regular file", path)
	}

	target, err = filepath.EvalSymlinks(path)
	if err != nil {
		return "", 0, false, fmt.Errorf("resolve roster file: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY, 0)
	if err != nil {
		return "", 0, false, fmt.Errorf("open roster file for writing: %w", err)
	}
	f.Close()

	return target, info.Mode().Perm(), true, nil
}

// Encode writes the header row followed by one row per student.
func Encode(w io.Writer, students []model.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(model.Columns))
	for i, s := range students {
		row[0] = s.Name
		row[1] = strconv.Itoa(s.Age)
		row[2] = s.Course
		row[3] = FormatGrade(s.Grade)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Decode parses a roster from r. The header must name exactly the four
// schema columns, in any order. Rows whose age or grade cannot be coerced
// are skipped and counted in ReadResult.Dropped.
func Decode(r io.Reader) (ReadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return ReadResult{}, fmt.Errorf("%w: missing header row", ErrMalformedFile)
	}
	if err != nil {
		return ReadResult{}, readError("read header", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return ReadResult{}, err
	}

	result := ReadResult{Students: []model.Student{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ReadResult{}, readError("read row", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return ReadResult{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformedFile, line, len(record), len(header))
		}

		cell := func(i int) string {
			if i < len(record) {
				return record[i]
			}
			return ""
		}

		age, ok := coerceAge(cell(idx[1]))
		if !ok {
			result.Dropped++
			continue
		}
		grade, ok := coerceGrade(cell(idx[3]))
		if !ok {
			result.Dropped++
			continue
		}

		result.Students = append(result.Students, model.Student{
			Name:   cell(idx[0]),
			Age:    age,
			Course: cell(idx[2]),
			Grade:  grade,
		})
	}

	return result, nil
}

// readError classifies CSV syntax errors as ErrMalformedFile and leaves
// everything else as a plain I/O error.
func readError(op string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: %s: %w", ErrMalformedFile, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// FormatGrade renders a grade as the shortest decimal that parses back to
// the same value, always with a fractional part.
func FormatGrade(g float64) string {
	s := strconv.FormatFloat(g, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// columnIndex maps each schema column to its position in header.
func columnIndex(header []string) ([len(model.Columns)]int, error) {
	var idx [len(model.Columns)]int
	if len(header) != len(model.Columns) {
		return idx, fmt.Errorf("%w: got %d columns %q", ErrSchemaMismatch, len(header), header)
	}

	seen := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		seen[strings.TrimSpace(name)] = i
	}

	for c, name := range model.Columns {
		i, ok := seen[name]
		if !ok {
			return idx, fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, name)
		}
		idx[c] = i
	}
	return idx, nil
}

// coerceAge accepts integers and integral decimals such as "20.0".
func coerceAge(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

func coerceGrade(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
