package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/martijn/clientbook/internal/core/domain"
	"github.com/martijn/clientbook/internal/core/repository"
)

const projectionSelect = `
	SELECT c.id AS client_id, c.first_name, c.last_name, c.email, p.number
	FROM client c
	LEFT JOIN phone p ON c.id = p.client_id
`

type clientPhoneRepository struct {
	db *DB
	q  sqlx.ExtContext
	tx bool
}

func NewClientPhoneRepository(db *DB) repository.ClientPhoneRepository {
	return &clientPhoneRepository{db: db, q: db.DB}
}

func (r *clientPhoneRepository) WithTx(ctx context.Context, fn func(repo repository.ClientPhoneRepository) error) error {
	// Already inside a transaction: join it.
	if r.tx {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify("failed to begin transaction", err)
	}

	if err := fn(&clientPhoneRepository{db: r.db, q: tx, tx: true}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("failed to commit transaction", err)
	}
	return nil
}

func (r *clientPhoneRepository) InsertClient(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO client (first_name, last_name, email)
		VALUES (?, ?, ?)
	`
	result, err := r.q.ExecContext(ctx, query, client.FirstName, client.LastName, client.Email)
	if err != nil {
		return classify("failed to create client", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return classify("failed to get last insert id", err)
	}
	client.ID = id

	return nil
}

func (r *clientPhoneRepository) InsertPhone(ctx context.Context, phone *domain.Phone) error {
	query := `
		INSERT INTO phone (client_id, number)
		VALUES (?, ?)
	`
	result, err := r.q.ExecContext(ctx, query, phone.ClientID, phone.Number)
	if err != nil {
		return classify("failed to create phone", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return classify("failed to get last insert id", err)
	}
	phone.ID = id

	return nil
}

func (r *clientPhoneRepository) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM client WHERE id = ?`, clientID); err != nil {
		return false, classify("failed to look up client", err)
	}
	return count > 0, nil
}

func (r *clientPhoneRepository) PhoneAttached(ctx context.Context, clientID, number int64) (bool, error) {
	query := `SELECT COUNT(*) FROM phone WHERE client_id = ? AND number = ?`
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, clientID, number); err != nil {
		return false, classify("failed to look up phone", err)
	}
	return count > 0, nil
}

func (r *clientPhoneRepository) UpdateClientField(ctx context.Context, clientID int64, field domain.ClientField, value string) error {
	column, ok := clientColumns[field]
	if !ok {
		return fmt.Errorf("%w: unknown client field %q", domain.ErrValidation, field)
	}

	query := fmt.Sprintf(`UPDATE client SET %s = ? WHERE id = ?`, column)
	if _, err := r.q.ExecContext(ctx, query, value, clientID); err != nil {
		return classify(fmt.Sprintf("failed to update client %s", column), err)
	}
	return nil
}

func (r *clientPhoneRepository) UpdatePhoneNumber(ctx context.Context, clientID, oldNumber, newNumber int64) error {
	query := `
		UPDATE phone
		SET number = ?
		WHERE client_id = ? AND number = ?
	`
	if _, err := r.q.ExecContext(ctx, query, newNumber, clientID, oldNumber); err != nil {
		return classify("failed to update phone", err)
	}
	return nil
}

func (r *clientPhoneRepository) DeletePhone(ctx context.Context, clientID, number int64) error {
	query := `DELETE FROM phone WHERE client_id = ? AND number = ?`
	if _, err := r.q.ExecContext(ctx, query, clientID, number); err != nil {
		return classify("failed to delete phone", err)
	}
	return nil
}

func (r *clientPhoneRepository) DeletePhones(ctx context.Context, clientID int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM phone WHERE client_id = ?`, clientID); err != nil {
		return classify("failed to delete phones", err)
	}
	return nil
}

func (r *clientPhoneRepository) DeleteClient(ctx context.Context, clientID int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM client WHERE id = ?`, clientID); err != nil {
		return classify("failed to delete client", err)
	}
	return nil
}

func (r *clientPhoneRepository) Projection(ctx context.Context, clientID int64) ([]domain.ProjectionRow, error) {
	query := projectionSelect + `
		WHERE c.id = ?
		ORDER BY p.number
	`
	rows := []domain.ProjectionRow{}
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, clientID); err != nil {
		return nil, classify("failed to load client projection", err)
	}
	return rows, nil
}

func (r *clientPhoneRepository) Search(ctx context.Context, search domain.ClientSearch) ([]domain.ProjectionRow, error) {
	where, args, err := BuildSearchClause(search)
	if err != nil {
		return nil, err
	}

	query := projectionSelect + where + ` ORDER BY c.id, p.number`
	rows := []domain.ProjectionRow{}
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, classify("failed to search clients", err)
	}
	return rows, nil
}

func (r *clientPhoneRepository) List(ctx context.Context, filter repository.ClientListFilter) ([]domain.ProjectionRow, error) {
	orderBy, err := ApplyOrdering("", filter.Order, "c.id ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	// Paginate clients first, then join their phones.
	page, args := ApplyPagination(`SELECT c.id, c.first_name, c.last_name, c.email FROM client c`+orderBy, nil, filter.Page, filter.PerPage)
	query := `
		SELECT c.id AS client_id, c.first_name, c.last_name, c.email, p.number
		FROM (` + page + `) c
		LEFT JOIN phone p ON c.id = p.client_id` + orderBy + `, p.number ASC`

	rows := []domain.ProjectionRow{}
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, classify("failed to list clients", err)
	}
	return rows, nil
}

func (r *clientPhoneRepository) CountClients(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM client`); err != nil {
		return 0, classify("failed to count clients", err)
	}
	return count, nil
}
