package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, "reason is required", DefaultMessage("Reason", "required", ""))
	assert.Equal(t, "email must be a valid email address", DefaultMessage("Email", "email", ""))
	assert.Equal(t, "hash must be exactly 8 characters", DefaultMessage("Hash", "len", "8"))
	assert.Equal(t, "type must be one of: EARLY_LEAVE OUTING", DefaultMessage("Type", "oneof", "EARLY_LEAVE OUTING"))
}

func TestMessagesFlattensValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Hash  string `validate:"required,len=8"`
	}

	err := validator.New().Struct(form{Email: "nope", Hash: "abc"})
	require.Error(t, err)

	messages := Messages(err)
	assert.Len(t, messages, 2)
	assert.Contains(t, messages, "email must be a valid email address")
	assert.Contains(t, messages, "hash must be exactly 8 characters")
}

func TestMessagesNonValidationError(t *testing.T) {
	messages := Messages(errors.New("unexpected EOF"))
	assert.Equal(t, []string{"request body is not valid"}, messages)
}
