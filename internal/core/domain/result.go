package domain

import "fmt"

type Outcome string

const (
	OutcomeSuccess              Outcome = "success"
	OutcomeInvalid              Outcome = "invalid"
	OutcomeClientNotFound       Outcome = "client_not_found"
	OutcomePhoneNotFound        Outcome = "phone_not_found"
	OutcomePhoneAlreadyAttached Outcome = "phone_already_attached"
)

// Err maps a negative outcome onto the error taxonomy. Success maps to nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeSuccess:
		return nil
	case OutcomeInvalid:
		return ErrValidation
	case OutcomeClientNotFound, OutcomePhoneNotFound:
		return ErrNotFound
	case OutcomePhoneAlreadyAttached:
		return ErrAlreadyAttached
	default:
		return fmt.Errorf("unknown outcome: %s", o)
	}
}

// Result is what every client-phone operation reports back
type Result struct {
	Outcome Outcome         `json:"outcome"`
	Message string          `json:"message"`
	Rows    []ProjectionRow `json:"rows"`
}

func (r *Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

func Succeeded(message string, rows []ProjectionRow) *Result {
	return &Result{Outcome: OutcomeSuccess, Message: message, Rows: rows}
}

func Failed(outcome Outcome, format string, args ...interface{}) *Result {
	return &Result{Outcome: outcome, Message: fmt.Sprintf(format, args...)}
}
