package domain

// Column limits shared by validation and the schema DDL
const (
	MaxNameLength  = 40
	MaxEmailLength = 60
)

type Client struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

// NewClient is the input of an add-client operation. Number is optional.
type NewClient struct {
	FirstName string `validate:"required,max=40"`
	LastName  string `validate:"required,max=40"`
	Email     string `validate:"required,max=60"`
	Number    *int64 `validate:"omitempty,gt=0"`
}

func (n NewClient) Client() *Client {
	return &Client{
		FirstName: n.FirstName,
		LastName:  n.LastName,
		Email:     n.Email,
	}
}
