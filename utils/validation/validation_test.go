package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Address string `json:"customerAddress" validate:"notblank,max=10"`
	Phone   string `json:"customerPhone" validate:"notblank,max=20,phone"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	err := Struct(sample{Address: "   ", Phone: "call me", Rating: 6})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)

	fields := map[string]string{}
	for _, d := range appErr.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "is required", fields["customerAddress"])
	assert.Equal(t, "must be a valid phone number", fields["customerPhone"])
	assert.Equal(t, "must be at most 5", fields["rating"])
}

func TestStructMaxCountsCharacters(t *testing.T) {
	err := Struct(sample{Address: strings.Repeat("é", 10), Phone: "+91 (80) 1234-5678", Rating: 3})
	assert.NoError(t, err)

	err = Struct(sample{Address: strings.Repeat("a", 11), Phone: "12345", Rating: 1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+94 77 123-4567"))
	assert.False(t, ValidPhone("077x1234"))
	assert.False(t, ValidPhone(""))
}
