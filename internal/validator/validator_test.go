package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stemsi/exstem-roster/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestStruct_ValidRequest(t *testing.T) {
	v := New()

	fields := v.Struct(model.CreateStudentRequest{
		Name: "Ana", Age: "20", Course: "Math", Grade: "8.5",
	})
	assert.Nil(t, fields)
}

func TestStruct_MissingFieldsUseFormNames(t *testing.T) {
	v := New()

	fields := v.Struct(model.CreateStudentRequest{Name: "Ana", Age: "20"})
	assert.Len(t, fields, 2)
	assert.Equal(t, "course is a required field", fields["course"])
	assert.Equal(t, "grade is a required field", fields["grade"])
}

func TestStruct_NameTooLong(t *testing.T) {
	v := New()

	fields := v.Struct(model.CreateStudentRequest{
		Name: strings.Repeat("a", 101), Age: "20", Course: "Math", Grade: "8.5",
	})
	assert.Contains(t, fields, "name")
}

func TestStruct_FilterRequest(t *testing.T) {
	v := New()

	assert.Nil(t, v.Struct(model.FilterRequest{MinGrade: "7"}))
	assert.Contains(t, v.Struct(model.FilterRequest{}), "min_grade")
}

func TestTranslateErrors_NonValidationError(t *testing.T) {
	v := New()

	fields := v.TranslateErrors(errors.New("boom"))
	assert.Equal(t, map[string]string{"detail": "boom"}, fields)
}
