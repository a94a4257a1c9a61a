package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/martijn/clientbook/internal/core/domain"
	"github.com/martijn/clientbook/internal/core/repository"
)

// ClientService implements the client/phone operations on top of the store.
// Invalid input and missing rows are reported as Result outcomes; only
// store-detected failures (constraints, transport) come back as errors.
type ClientService struct {
	repo     repository.ClientPhoneRepository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewClientService(repo repository.ClientPhoneRepository, logger *slog.Logger) *ClientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "client_service"),
	}
}

// AddClient inserts a client and, when a number is given, its first phone.
// Both inserts share one transaction.
func (s *ClientService) AddClient(ctx context.Context, in domain.NewClient) (*domain.Result, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.StructCtx(ctx, in); err != nil {
		return s.invalid(ctx, "add client", err), nil
	}

	client := in.Client()
	err := s.repo.WithTx(ctx, func(tx repository.ClientPhoneRepository) error {
		if err := tx.InsertClient(ctx, client); err != nil {
			return err
		}
		if in.Number != nil {
			return tx.InsertPhone(ctx, domain.NewPhone(client.ID, *in.Number))
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "add client failed", "email", in.Email, "error", err)
		return nil, fmt.Errorf("failed to add client: %w", err)
	}

	rows, err := s.repo.Projection(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "client added", "client_id", client.ID, "email", client.Email)
	return domain.Succeeded(fmt.Sprintf("client %d added", client.ID), rows), nil
}

// AddPhone attaches a number to an existing client.
func (s *ClientService) AddPhone(ctx context.Context, clientID, number int64) (*domain.Result, error) {
	if err := s.validate.VarCtx(ctx, number, "gt=0"); err != nil {
		return s.invalid(ctx, "add phone", fmt.Errorf("number must be positive")), nil
	}

	exists, err := s.repo.ClientExists(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return s.outcome(ctx, domain.Failed(domain.OutcomeClientNotFound, "client %d not found", clientID)), nil
	}

	attached, err := s.repo.PhoneAttached(ctx, clientID, number)
	if err != nil {
		return nil, err
	}
	if attached {
		return s.outcome(ctx, domain.Failed(domain.OutcomePhoneAlreadyAttached, "phone %d is already attached to client %d", number, clientID)), nil
	}

	if err := s.repo.InsertPhone(ctx, domain.NewPhone(clientID, number)); err != nil {
		s.logger.ErrorContext(ctx, "add phone failed", "client_id", clientID, "number", number, "error", err)
		return nil, fmt.Errorf("failed to add phone: %w", err)
	}

	rows, err := s.repo.Projection(ctx, clientID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "phone added", "client_id", clientID, "number", number)
	return domain.Succeeded(fmt.Sprintf("phone added to client %d", clientID), rows), nil
}

// ChangeClient applies the fields present in change.Fields, one statement
// per field, then swaps change.Phone.OldNumber for NewNumber when set.
// A missing old number stops the phone swap but keeps the field updates.
func (s *ClientService) ChangeClient(ctx context.Context, clientID int64, change domain.ClientChange) (*domain.Result, error) {
	fields := make(domain.FieldSet, len(change.Fields))
	for field, value := range change.Fields {
		value = strings.TrimSpace(value)
		rule := fmt.Sprintf("required,max=%d", field.MaxLength())
		if err := s.validate.VarCtx(ctx, value, rule); err != nil {
			return s.invalid(ctx, "change client", fmt.Errorf("%s must be non-empty and at most %d characters", field, field.MaxLength())), nil
		}
		fields[field] = value
	}
	if change.Phone != nil && (change.Phone.OldNumber <= 0 || change.Phone.NewNumber <= 0) {
		return s.invalid(ctx, "change client", fmt.Errorf("old and new numbers must be positive")), nil
	}

	exists, err := s.repo.ClientExists(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return s.outcome(ctx, domain.Failed(domain.OutcomeClientNotFound, "client %d not found", clientID)), nil
	}

	phoneMissing := false
	err = s.repo.WithTx(ctx, func(tx repository.ClientPhoneRepository) error {
		for _, field := range fields.Ordered() {
			if err := tx.UpdateClientField(ctx, clientID, field, fields[field]); err != nil {
				return err
			}
		}

		if change.Phone == nil {
			return nil
		}

		attached, err := tx.PhoneAttached(ctx, clientID, change.Phone.OldNumber)
		if err != nil {
			return err
		}
		if !attached {
			phoneMissing = true
			return nil
		}
		return tx.UpdatePhoneNumber(ctx, clientID, change.Phone.OldNumber, change.Phone.NewNumber)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "change client failed", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to change client: %w", err)
	}

	rows, err := s.repo.Projection(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if phoneMissing {
		result := domain.Failed(domain.OutcomePhoneNotFound, "phone %d was not attached to client %d", change.Phone.OldNumber, clientID)
		result.Rows = rows
		return s.outcome(ctx, result), nil
	}

	s.logger.InfoContext(ctx, "client changed", "client_id", clientID, "fields", len(fields), "phone_changed", change.Phone != nil)
	return domain.Succeeded(fmt.Sprintf("client %d updated", clientID), rows), nil
}

// DeletePhone detaches a number from a client. Absent pairs are a no-op.
func (s *ClientService) DeletePhone(ctx context.Context, clientID, number int64) (*domain.Result, error) {
	if err := s.repo.DeletePhone(ctx, clientID, number); err != nil {
		return nil, fmt.Errorf("failed to delete phone: %w", err)
	}

	rows, err := s.repo.Projection(ctx, clientID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "phone deleted", "client_id", clientID, "number", number)
	return domain.Succeeded(fmt.Sprintf("phone deleted from client %d", clientID), rows), nil
}

// DeleteClient removes the client's phones and then the client in one
// transaction. The returned projection is empty on success.
func (s *ClientService) DeleteClient(ctx context.Context, clientID int64) (*domain.Result, error) {
	err := s.repo.WithTx(ctx, func(tx repository.ClientPhoneRepository) error {
		if err := tx.DeletePhones(ctx, clientID); err != nil {
			return err
		}
		return tx.DeleteClient(ctx, clientID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "delete client failed", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to delete client: %w", err)
	}

	rows, err := s.repo.Projection(ctx, clientID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "client deleted", "client_id", clientID)
	return domain.Succeeded(fmt.Sprintf("client %d deleted", clientID), rows), nil
}

// FindClient returns the rows matching every active filter.
func (s *ClientService) FindClient(ctx context.Context, search domain.ClientSearch) (*domain.Result, error) {
	if search.IsEmpty() {
		return s.invalid(ctx, "find client", fmt.Errorf("at least one search filter is required")), nil
	}

	rows, err := s.repo.Search(ctx, search)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return s.invalid(ctx, "find client", err), nil
		}
		return nil, err
	}

	s.logger.DebugContext(ctx, "client search", "filters", len(search.Terms()), "rows", len(rows))
	return domain.Succeeded(fmt.Sprintf("%d matching rows", len(rows)), rows), nil
}

// Projection reports the current state of one client.
func (s *ClientService) Projection(ctx context.Context, clientID int64) (*domain.Result, error) {
	rows, err := s.repo.Projection(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return s.outcome(ctx, domain.Failed(domain.OutcomeClientNotFound, "client %d not found", clientID)), nil
	}
	return domain.Succeeded(fmt.Sprintf("client %d", clientID), rows), nil
}

// ListClients returns one page of clients with their phones and the total client count.
func (s *ClientService) ListClients(ctx context.Context, filter repository.ClientListFilter) ([]domain.ProjectionRow, int, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountClients(ctx)
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (s *ClientService) invalid(ctx context.Context, op string, err error) *domain.Result {
	return s.outcome(ctx, domain.Failed(domain.OutcomeInvalid, "%s: %s", op, describeValidation(err)))
}

func (s *ClientService) outcome(ctx context.Context, result *domain.Result) *domain.Result {
	s.logger.InfoContext(ctx, "operation rejected", "outcome", result.Outcome, "message", result.Message)
	return result
}

// describeValidation turns validator errors into "FirstName is required" style text.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
