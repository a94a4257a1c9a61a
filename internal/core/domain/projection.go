package domain

// ProjectionRow is one row of a client joined with one of its phones.
// Number is nil when the client owns no phone.
type ProjectionRow struct {
	ClientID  int64  `db:"client_id" json:"client_id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Number    *int64 `db:"number" json:"number"`
}

// Numbers returns the non-null phone numbers in row order.
func Numbers(rows []ProjectionRow) []int64 {
	var numbers []int64
	for _, row := range rows {
		if row.Number != nil {
			numbers = append(numbers, *row.Number)
		}
	}
	return numbers
}
