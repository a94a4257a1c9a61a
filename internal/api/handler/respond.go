package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientbook/internal/api/dto"
	"github.com/martijn/clientbook/internal/core/domain"
)

// outcomeStatus maps negative operation outcomes to HTTP status codes
var outcomeStatus = map[domain.Outcome]int{
	domain.OutcomeInvalid:              http.StatusBadRequest,
	domain.OutcomeClientNotFound:       http.StatusNotFound,
	domain.OutcomePhoneNotFound:        http.StatusNotFound,
	domain.OutcomePhoneAlreadyAttached: http.StatusConflict,
}

// StatusForError maps a store error onto an HTTP status code
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUniquenessViolation), errors.Is(err, domain.ErrReferentialIntegrity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Bad Request",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func respondError(c *gin.Context, err error) {
	code := StatusForError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		// Keep driver details out of responses; the error middleware logs them.
		_ = c.Error(err)
		message = "An unexpected store error occurred"
	}
	c.JSON(code, dto.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// respondResult writes a successful result with successCode and a
// negative outcome as an ErrorResponse carrying the outcome message.
func respondResult(c *gin.Context, result *domain.Result, successCode int) {
	if result.OK() {
		c.JSON(successCode, toResultResponse(result))
		return
	}

	code, ok := outcomeStatus[result.Outcome]
	if !ok {
		code = http.StatusInternalServerError
	}
	c.JSON(code, dto.ErrorResponse{
		Error:   http.StatusText(code),
		Message: result.Message,
		Code:    code,
	})
}

func toResultResponse(result *domain.Result) dto.ResultResponse {
	return dto.ResultResponse{
		Outcome: string(result.Outcome),
		Message: result.Message,
		Items:   toRowResponses(result.Rows),
	}
}

func toRowResponses(rows []domain.ProjectionRow) []dto.ClientRowResponse {
	items := make([]dto.ClientRowResponse, len(rows))
	for i, row := range rows {
		items[i] = dto.ClientRowResponse{
			ClientID:  row.ClientID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Number:    row.Number,
		}
	}
	return items
}
