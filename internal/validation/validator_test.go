package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string  `json:"name" validate:"notblank"`
	Email   string  `json:"email" validate:"required,email"`
	Message string  `json:"message" validate:"max=5"`
	Title   *string `json:"title,omitempty" validate:"omitempty,notblank"`
}

func TestCheckReportsJSONFieldNames(t *testing.T) {
	v := New()
	blank := "  "
	err := v.Check(sample{Name: "  ", Email: "nope", Message: "too long", Title: &blank})
	require.Error(t, err)

	errs, ok := AsErrors(err)
	require.True(t, ok)

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "must be a valid email", byField["email"])
	assert.Equal(t, "cannot be more than 5 characters", byField["message"])
	assert.Equal(t, "is required", byField["title"])
}

func TestCheckPasses(t *testing.T) {
	v := New()
	assert.NoError(t, v.Check(sample{Name: "Ana", Email: "ana@example.com", Message: "hi"}))
}

func TestAsErrorsThroughWrapping(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), Field("slug", "already exists"))
	errs, ok := AsErrors(wrapped)
	require.True(t, ok)
	assert.Equal(t, "slug", errs[0].Field)
	assert.Contains(t, errs.Error(), "slug already exists")
}
