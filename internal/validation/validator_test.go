package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/moviekeep/moviekeep-server/internal/errors"
	"github.com/moviekeep/moviekeep-server/internal/validation"
)

type addMovieRequest struct {
	Title      string   `json:"title" validate:"required,min=1,max=512"`
	UserRating *float64 `json:"user_rating" validate:"omitempty,gte=0,lte=10"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	rating := 8.5
	req := addMovieRequest{
		Title:      "Heat",
		UserRating: &rating,
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	badRating := 12.0
	negRating := -1.0

	tests := []struct {
		name        string
		req         addMovieRequest
		wantErrCode int
		wantField   string
	}{
		{
			name:        "missing title",
			req:         addMovieRequest{Title: ""},
			wantErrCode: http.StatusBadRequest,
			wantField:   "title",
		},
		{
			name:        "title too long",
			req:         addMovieRequest{Title: string(make([]byte, 513))},
			wantErrCode: http.StatusBadRequest,
			wantField:   "title",
		},
		{
			name:        "rating above range",
			req:         addMovieRequest{Title: "Heat", UserRating: &badRating},
			wantErrCode: http.StatusBadRequest,
			wantField:   "user_rating",
		},
		{
			name:        "rating below range",
			req:         addMovieRequest{Title: "Heat", UserRating: &negRating},
			wantErrCode: http.StatusBadRequest,
			wantField:   "user_rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var appErr *apperrors.Error
			if assert.True(t, errors.As(err, &appErr)) {
				assert.Equal(t, tt.wantErrCode, appErr.HTTPStatus())

				details, ok := appErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, details, tt.wantField)
				}
			}
		})
	}
}
