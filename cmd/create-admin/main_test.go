package main

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/hotelops/reclamations-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFailureMessage(t *testing.T) {
	conflict := fmt.Errorf("create: %w", pkgerrors.New(pkgerrors.CodeConflict, "email already in use"))
	assert.Equal(t, "an account with that email already exists", failureMessage(conflict))

	invalid := pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	assert.Contains(t, failureMessage(invalid), "invalid input")

	assert.Contains(t, failureMessage(errors.New("db down")), "could not create admin: db down")
}
