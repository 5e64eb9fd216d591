package validation_test

import (
	"errors"
	"testing"

	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addAuthorRequest struct {
	Name string `json:"name" validate:"required,min=4"`
	Born *int   `json:"born,omitempty" validate:"omitempty,gte=0"`
}

func TestValidator_Valid(t *testing.T) {
	v := validation.New()

	born := 1963
	err := v.Validate(addAuthorRequest{Name: "Sandi Metz", Born: &born})
	assert.NoError(t, err)
}

func TestValidator_ShortName(t *testing.T) {
	v := validation.New()

	err := v.Validate(addAuthorRequest{Name: "Bob"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeInvalidInput, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 4 characters", details["name"])
}

func TestValidator_UsesJSONTagNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(addAuthorRequest{})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	_, hasJSONName := details["name"]
	_, hasGoName := details["Name"]
	assert.True(t, hasJSONName)
	assert.False(t, hasGoName)
}
