package domain

// ClientField names an updatable scalar column of a client
type ClientField string

const (
	FieldFirstName ClientField = "first_name"
	FieldLastName  ClientField = "last_name"
	FieldEmail     ClientField = "email"
)

// ClientFields is the order in which field updates are applied.
var ClientFields = []ClientField{FieldFirstName, FieldLastName, FieldEmail}

// MaxLength returns the column limit for the field.
func (f ClientField) MaxLength() int {
	if f == FieldEmail {
		return MaxEmailLength
	}
	return MaxNameLength
}

// FieldSet maps the fields a caller wants to change to their new values.
// A missing key leaves the column untouched; it never means "set to empty".
type FieldSet map[ClientField]string

func (fs FieldSet) Set(field ClientField, value string) FieldSet {
	fs[field] = value
	return fs
}

// Ordered returns the present fields in ClientFields order.
func (fs FieldSet) Ordered() []ClientField {
	fields := make([]ClientField, 0, len(fs))
	for _, f := range ClientFields {
		if _, ok := fs[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// PhoneChange replaces an attached number with a new one
type PhoneChange struct {
	OldNumber int64
	NewNumber int64
}

// ClientChange is the input of a change-client operation
type ClientChange struct {
	Fields FieldSet
	Phone  *PhoneChange
}

func (c ClientChange) IsEmpty() bool {
	return len(c.Fields) == 0 && c.Phone == nil
}
