package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateTransform checks an edit transform against its allowed ranges.
func ValidateTransform(t domain.EditTransform) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransform, describeValidation(err))
	}
	return nil
}

// describeValidation flattens validator errors into one readable line.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s (got %v)",
				fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
