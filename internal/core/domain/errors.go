package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrAlreadyAttached      = errors.New("phone already attached")
	ErrUniquenessViolation  = errors.New("uniqueness violation")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrStore                = errors.New("store error")
)

// IsConstraintViolation reports whether err was raised by a store constraint.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrUniquenessViolation) || errors.Is(err, ErrReferentialIntegrity)
}
