package repository

import (
	"context"

	"github.com/martijn/clientbook/internal/api/util"
	"github.com/martijn/clientbook/internal/core/domain"
)

// ClientListFilter controls ordering and pagination of a full client listing
type ClientListFilter struct {
	util.ListFilter
}

// ClientPhoneRepository is the store contract behind the client-phone operations.
// Implementations surface constraint failures as domain.ErrUniquenessViolation or
// domain.ErrReferentialIntegrity and everything else as domain.ErrStore.
type ClientPhoneRepository interface {
	// Runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(repo ClientPhoneRepository) error) error

	InsertClient(ctx context.Context, client *domain.Client) error
	InsertPhone(ctx context.Context, phone *domain.Phone) error

	ClientExists(ctx context.Context, clientID int64) (bool, error)
	PhoneAttached(ctx context.Context, clientID, number int64) (bool, error)

	UpdateClientField(ctx context.Context, clientID int64, field domain.ClientField, value string) error
	UpdatePhoneNumber(ctx context.Context, clientID, oldNumber, newNumber int64) error

	DeletePhone(ctx context.Context, clientID, number int64) error
	DeletePhones(ctx context.Context, clientID int64) error
	DeleteClient(ctx context.Context, clientID int64) error

	Projection(ctx context.Context, clientID int64) ([]domain.ProjectionRow, error)
	Search(ctx context.Context, search domain.ClientSearch) ([]domain.ProjectionRow, error)
	List(ctx context.Context, filter ClientListFilter) ([]domain.ProjectionRow, error)
	CountClients(ctx context.Context) (int, error)
}
