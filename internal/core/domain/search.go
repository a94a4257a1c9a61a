package domain

// SearchField names a filterable client attribute
type SearchField string

const (
	SearchFirstName SearchField = "first_name"
	SearchLastName  SearchField = "last_name"
	SearchEmail     SearchField = "email"
	SearchNumber    SearchField = "number"
)

// SearchFields lists the filterable fields in the order predicates are emitted.
var SearchFields = []SearchField{SearchFirstName, SearchLastName, SearchEmail, SearchNumber}

// SearchTerm is one active equality filter
type SearchTerm struct {
	Field SearchField
	Value interface{}
}

// ClientSearch holds the optional filters of a client search. Nil means "not filtered".
type ClientSearch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Number    *int64
}

// Terms returns the active filters in SearchFields order.
func (s ClientSearch) Terms() []SearchTerm {
	var terms []SearchTerm
	if s.FirstName != nil {
		terms = append(terms, SearchTerm{Field: SearchFirstName, Value: *s.FirstName})
	}
	if s.LastName != nil {
		terms = append(terms, SearchTerm{Field: SearchLastName, Value: *s.LastName})
	}
	if s.Email != nil {
		terms = append(terms, SearchTerm{Field: SearchEmail, Value: *s.Email})
	}
	if s.Number != nil {
		terms = append(terms, SearchTerm{Field: SearchNumber, Value: *s.Number})
	}
	return terms
}

func (s ClientSearch) IsEmpty() bool {
	return s.FirstName == nil && s.LastName == nil && s.Email == nil && s.Number == nil
}
