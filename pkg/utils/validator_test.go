package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ratingForm struct {
	MovieID int    `validate:"required,min=1"`
	Rating  int    `validate:"required,min=1,max=5"`
	Comment string `validate:"max=10"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(ratingForm{MovieID: 1, Rating: 5}))

	errs := ValidateStruct(ratingForm{Rating: 6, Comment: "far too long"})
	assert.Equal(t, map[string]string{
		"MovieID": "This field is required",
		"Rating":  "Maximum value is 5",
		"Comment": "Maximum value is 10",
	}, errs)

	assert.Equal(t,
		"Comment: Maximum value is 10; MovieID: This field is required; Rating: Maximum value is 5",
		FormatValidationErrors(errs))
}

func TestParseMovieID(t *testing.T) {
	id, err := ParseMovieID("550")
	assert.NoError(t, err)
	assert.Equal(t, 550, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := ParseMovieID(bad)
		assert.Error(t, err, bad)
	}
}
