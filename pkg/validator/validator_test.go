package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "a"}))

	err := ValidateStruct(sample{Email: "nope"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sample.Name")
	assert.Contains(t, err.Error(), "Tag: email")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("a@b.co", "required,email"))
	assert.Error(t, ValidateVar("a@", "required,email"))
	assert.Error(t, ValidateVar("", "required,email"))
}
