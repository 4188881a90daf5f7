package models

import "errors"

// ValidationError marks bad user input. Operations return it before touching
// the store, so a validation failure never has side effects.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
