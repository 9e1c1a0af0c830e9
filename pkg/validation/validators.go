package validation

import (
	"strings"

	"go-candidate-scout/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// missingAvatarMarker is the placeholder fragment the directory uses for absent images.
const missingAvatarMarker = "missing"

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("displayable_avatar", DisplayableAvatar)
}

// DisplayableAvatar accepts avatar URLs that are present, not a placeholder, and served over https.
func DisplayableAvatar(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val != "" &&
		!strings.Contains(val, missingAvatarMarker) &&
		strings.HasPrefix(val, "https://")
}

// Check runs struct validation and wraps failures as a ValidationError.
func Check(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return &apperror.ValidationError{Reason: strings.Join(FormatValidationErrors(err), "; ")}
	}
	return nil
}
