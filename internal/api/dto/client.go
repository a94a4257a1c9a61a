package dto

// CreateClientRequest represents the client creation request
type CreateClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Number    *int64 `json:"number"` // Optional first phone
}

// ChangeClientRequest represents a partial client update.
// Omitted fields are left unchanged.
type ChangeClientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	OldNumber *int64  `json:"old_number"`
	NewNumber *int64  `json:"new_number"`
}

// AddPhoneRequest represents the phone attach request
type AddPhoneRequest struct {
	Number int64 `json:"number" binding:"required"`
}

// ClientRowResponse is one client/phone projection row
type ClientRowResponse struct {
	ClientID  int64  `json:"client_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Number    *int64 `json:"number"`
}

// ResultResponse reports the outcome of a client operation and the
// resulting projection
type ResultResponse struct {
	Outcome string              `json:"outcome"`
	Message string              `json:"message"`
	Items   []ClientRowResponse `json:"items"`
}

// ClientListResponse represents a page of clients with their phones
type ClientListResponse struct {
	Items      []ClientRowResponse `json:"items"`
	Pagination PaginationInfo      `json:"pagination"`
}
