package model

// CSV column names, in the order they are written.
const (
	ColumnName   = "Nome"
	ColumnAge    = "Idade"
	ColumnCourse = "Curso"
	ColumnGrade  = "Nota Final"
)

// Columns is the fixed roster schema used for every file read and write.
var Columns = [...]string{ColumnName, ColumnAge, ColumnCourse, ColumnGrade}

// Student is one roster entry.
type Student struct {
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Course string  `json:"course"`
	Grade  float64 `json:"grade"`
}

// CreateStudentRequest is the raw input collected by the shell before the
// numeric fields are parsed by the roster store.
type CreateStudentRequest struct {
	Name   string `form:"name" validate:"required,max=100"`
	Age    string `form:"age" validate:"required"`
	Course string `form:"course" validate:"required,max=100"`
	Grade  string `form:"grade" validate:"required"`
}

// FilterRequest is the raw minimum-grade input for a filter command.
type FilterRequest struct {
	MinGrade string `form:"min_grade" validate:"required"`
}
