package sqldb

import (
	"fmt"
	"strings"

	"github.com/martijn/clientbook/internal/api/util"
	"github.com/martijn/clientbook/internal/core/domain"
)

// searchColumns maps search fields to the projection columns they filter on
var searchColumns = map[domain.SearchField]string{
	domain.SearchFirstName: "c.first_name",
	domain.SearchLastName:  "c.last_name",
	domain.SearchEmail:     "c.email",
	domain.SearchNumber:    "p.number",
}

// orderColumns maps list order fields to client columns
var orderColumns = map[string]string{
	"id":         "c.id",
	"first_name": "c.first_name",
	"last_name":  "c.last_name",
	"email":      "c.email",
}

// clientColumns maps updatable fields to client columns
var clientColumns = map[domain.ClientField]string{
	domain.FieldFirstName: "first_name",
	domain.FieldLastName:  "last_name",
	domain.FieldEmail:     "email",
}

// OrderFields lists the fields a client listing can be ordered by
func OrderFields() []string {
	return []string{"id", "first_name", "last_name", "email"}
}

// PredicateBuilder accumulates equality predicates together with their bind
// values, so the placeholder count always equals the argument count.
type PredicateBuilder struct {
	clauses []string
	args    []interface{}
}

func NewPredicateBuilder() *PredicateBuilder {
	return &PredicateBuilder{}
}

// Eq appends "column = ?" bound to value.
func (b *PredicateBuilder) Eq(column string, value interface{}) *PredicateBuilder {
	b.clauses = append(b.clauses, column+" = ?")
	b.args = append(b.args, value)
	return b
}

func (b *PredicateBuilder) Len() int {
	return len(b.clauses)
}

// Build returns the AND-joined predicate list and its arguments.
func (b *PredicateBuilder) Build() (string, []interface{}) {
	return strings.Join(b.clauses, " AND "), b.args
}

// BuildSearchClause builds the WHERE clause for a client search
func BuildSearchClause(search domain.ClientSearch) (string, []interface{}, error) {
	b := NewPredicateBuilder()
	for _, term := range search.Terms() {
		column, ok := searchColumns[term.Field]
		if !ok {
			return "", nil, fmt.Errorf("unknown search field: %s", term.Field)
		}
		b.Eq(column, term.Value)
	}
	if b.Len() == 0 {
		return "", nil, fmt.Errorf("%w: at least one search filter is required", domain.ErrValidation)
	}

	clause, args := b.Build()
	return " WHERE " + clause, args, nil
}

// ApplyOrdering applies OrderClauses to a query
func ApplyOrdering(query string, orders []util.OrderClause, defaultOrder string) (string, error) {
	if len(orders) > 0 {
		orderClauses := make([]string, 0, len(orders))
		for _, o := range orders {
			column, ok := orderColumns[o.Field]
			if !ok {
				return "", fmt.Errorf("invalid order field: %s", o.Field)
			}
			direction := "ASC"
			if o.Direction == util.OrderDesc {
				direction = "DESC"
			}
			orderClauses = append(orderClauses, fmt.Sprintf("%s %s", column, direction))
		}
		return query + " ORDER BY " + strings.Join(orderClauses, ", "), nil
	}
	return query + " ORDER BY " + defaultOrder, nil
}

// ApplyPagination applies page/perPage to a query
func ApplyPagination(query string, args []interface{}, page, perPage int) (string, []interface{}) {
	if perPage > 0 {
		query += " LIMIT ?"
		args = append(args, perPage)

		if page > 1 {
			offset := (page - 1) * perPage
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}
	return query, args
}
