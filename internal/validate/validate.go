// Package validate checks user and recipe fields before they are persisted.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MinInstructionsLength is the minimum number of characters a recipe's instructions must have.
const MinInstructionsLength = 50

// Error is a validation failure with a message that is safe to show to clients.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsError reports whether err is a validation failure.
func IsError(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}

// Recipe holds the recipe fields that are validated on creation.
type Recipe struct {
	Title             string `validate:"required"`
	Instructions      string `validate:"required,min=50"`
	MinutesToComplete *int   `validate:"omitempty,gt=0"`
}

// Validator validates usernames and recipes.
type Validator struct {
	validate          *validator.Validate
	minUsernameLength int
}

// New creates a Validator. A minUsernameLength below 1 only requires a non-empty username.
func New(minUsernameLength int) *Validator {
	return &Validator{
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		minUsernameLength: minUsernameLength,
	}
}

// Username validates a username. It returns nil if the username is valid.
func (v *Validator) Username(username string) error {
	tag := "required"
	if v.minUsernameLength > 1 {
		tag = fmt.Sprintf("required,min=%d", v.minUsernameLength)
	}
	if err := v.validate.Var(username, tag); err != nil {
		return v.translate("Username", err)
	}
	return nil
}

// Recipe validates the recipe fields. It returns nil if the recipe is valid.
func (v *Validator) Recipe(r Recipe) error {
	if err := v.validate.Struct(r); err != nil {
		return v.translate("", err)
	}
	return nil
}

// translate converts the first validator failure into an *Error.
func (v *Validator) translate(field string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	if field == "" {
		field = fe.Field()
	}

	switch field {
	case "Username":
		if fe.Tag() == "required" {
			return &Error{Field: "username", Message: "Username is required."}
		}
		return &Error{Field: "username", Message: fmt.Sprintf("Username must be at least %d characters long.", v.minUsernameLength)}
	case "Title":
		return &Error{Field: "title", Message: "Title is required."}
	case "Instructions":
		return &Error{Field: "instructions", Message: fmt.Sprintf("Instructions must be at least %d characters long.", MinInstructionsLength)}
	case "MinutesToComplete":
		return &Error{Field: "minutes_to_complete", Message: "Minutes to complete must be greater than zero."}
	default:
		return &Error{Field: field, Message: fe.Error()}
	}
}
