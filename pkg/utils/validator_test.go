package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Username string `validate:"required,min=3"`
	ID       string `validate:"required,uuid"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(&sampleRequest{Username: "ab", ID: "nope"})

	assert.Equal(t, "Minimum length is 3", errs["Username"])
	assert.Equal(t, "Must be a valid UUID", errs["ID"])
	assert.Equal(t, "ID: Must be a valid UUID; Username: Minimum length is 3", FormatValidationErrors(errs))
	assert.Len(t, ValidationDetails(errs), 2)
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(&sampleRequest{Username: "alice", ID: "0b5e6f6e-5a4c-4d52-9f0a-2f4f0e7c1a11"})
	assert.Nil(t, errs)
}
