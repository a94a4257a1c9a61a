package domain

type Phone struct {
	ID       int64  `db:"id" json:"id"`
	ClientID int64  `db:"client_id" json:"client_id"`
	Number   *int64 `db:"number" json:"number"`
}

func NewPhone(clientID, number int64) *Phone {
	return &Phone{
		ClientID: clientID,
		Number:   &number,
	}
}
