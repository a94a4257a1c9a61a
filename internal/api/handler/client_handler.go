package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientbook/internal/api/dto"
	"github.com/martijn/clientbook/internal/api/util"
	"github.com/martijn/clientbook/internal/core/domain"
	"github.com/martijn/clientbook/internal/core/repository"
	"github.com/martijn/clientbook/internal/core/service"
	"github.com/martijn/clientbook/internal/infrastructure/sqldb"
)

// Allowed fields for client queries
var clientQueryFields = func() []string {
	fields := make([]string, len(domain.SearchFields))
	for i, f := range domain.SearchFields {
		fields[i] = string(f)
	}
	return fields
}()

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClient handles POST /clients
//
//	@Summary	Add a client, optionally with a first phone
//	@Tags		clients
//	@Accept		json
//	@Produce	json
//	@Param		client	body		dto.CreateClientRequest	true	"Client"
//	@Success	201		{object}	dto.ResultResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.clientService.AddClient(c.Request.Context(), domain.NewClient{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Number:    req.Number,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondResult(c, result, http.StatusCreated)
}

// GetClient handles GET /clients/:id
//
//	@Summary	Show a client with its phones
//	@Tags		clients
//	@Produce	json
//	@Param		id	path		int	true	"Client ID"
//	@Success	200	{object}	dto.ResultResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	result, err := h.clientService.Projection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondResult(c, result, http.StatusOK)
}

// ListClients handles GET /clients. With a query parameter it searches,
// otherwise it lists every client page by page.
//
//	@Summary	Search or list clients
//	@Tags		clients
//	@Produce	json
//	@Param		query		query		string	false	"Filters, e.g. first_name|Ilya,number|89003003300"
//	@Param		order		query		string	false	"Ordering, e.g. last_name|asc"
//	@Param		page		query		int		false	"Page"
//	@Param		per_page	query		int		false	"Clients per page"
//	@Success	200			{object}	dto.ClientListResponse
//	@Failure	400			{object}	dto.ErrorResponse
//	@Router		/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	if queryStr, ok := c.GetQuery("query"); ok {
		h.searchClients(c, queryStr)
		return
	}

	// Parse pagination parameters
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	if page < 1 {
		page = 1
	}

	filter := repository.ClientListFilter{
		ListFilter: util.ListFilter{
			Page:    page,
			PerPage: perPage,
		},
	}

	// Parse order
	if orderStr := c.Query("order"); orderStr != "" {
		orders, err := util.ParseOrderString(orderStr)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		// Validate field names
		if err := util.ValidateOrderFields(orders, sqldb.OrderFields()); err != nil {
			badRequest(c, err.Error())
			return
		}

		filter.Order = orders
	}

	rows, total, err := h.clientService.ListClients(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClientListResponse{
		Items: toRowResponses(rows),
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			PerPage:    perPage,
			TotalPages: filter.TotalPages(total),
		},
	})
}

func (h *ClientHandler) searchClients(c *gin.Context, queryStr string) {
	filters, err := util.ParseQueryString(queryStr)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	// Validate field names
	if err := util.ValidateFilterFields(filters, clientQueryFields); err != nil {
		badRequest(c, err.Error())
		return
	}

	search, err := toClientSearch(filters)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.clientService.FindClient(c.Request.Context(), search)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.OK() {
		respondResult(c, result, http.StatusOK)
		return
	}

	total := len(result.Rows)
	c.JSON(http.StatusOK, dto.ClientListResponse{
		Items: toRowResponses(result.Rows),
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       1,
			PerPage:    total,
			TotalPages: 1,
		},
	})
}

// UpdateClient handles PATCH /clients/:id
//
//	@Summary	Change client fields and/or swap a phone number
//	@Tags		clients
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int							true	"Client ID"
//	@Param		change	body		dto.ChangeClientRequest		true	"Fields to change"
//	@Success	200		{object}	dto.ResultResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/clients/{id} [patch]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	var req dto.ChangeClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	change, err := toClientChange(req)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.clientService.ChangeClient(c.Request.Context(), id, change)
	if err != nil {
		respondError(c, err)
		return
	}

	respondResult(c, result, http.StatusOK)
}

// DeleteClient handles DELETE /clients/:id
//
//	@Summary	Delete a client and its phones
//	@Tags		clients
//	@Produce	json
//	@Param		id	path		int	true	"Client ID"
//	@Success	200	{object}	dto.ResultResponse
//	@Router		/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	result, err := h.clientService.DeleteClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondResult(c, result, http.StatusOK)
}

// AddPhone handles POST /clients/:id/phones
//
//	@Summary	Attach a phone number to a client
//	@Tags		phones
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Client ID"
//	@Param		phone	body		dto.AddPhoneRequest		true	"Phone"
//	@Success	201		{object}	dto.ResultResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/clients/{id}/phones [post]
func (h *ClientHandler) AddPhone(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	var req dto.AddPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.clientService.AddPhone(c.Request.Context(), id, req.Number)
	if err != nil {
		respondError(c, err)
		return
	}

	respondResult(c, result, http.StatusCreated)
}

// DeletePhone handles DELETE /clients/:id/phones/:number
//
//	@Summary	Detach a phone number from a client
//	@Tags		phones
//	@Produce	json
//	@Param		id		path		int	true	"Client ID"
//	@Param		number	path		int	true	"Phone number"
//	@Success	200		{object}	dto.ResultResponse
//	@Router		/clients/{id}/phones/{number} [delete]
func (h *ClientHandler) DeletePhone(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid phone number: %s", c.Param("number")))
		return
	}

	result, err := h.clientService.DeletePhone(c.Request.Context(), id, number)
	if err != nil {
		respondError(c, err)
		return
	}

	respondResult(c, result, http.StatusOK)
}

func clientIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("invalid client id: %s", c.Param("id")))
		return 0, false
	}
	return id, true
}

func toClientSearch(filters []util.QueryFilter) (domain.ClientSearch, error) {
	var search domain.ClientSearch
	for _, f := range filters {
		value := f.Value
		switch domain.SearchField(f.Field) {
		case domain.SearchFirstName:
			search.FirstName = &value
		case domain.SearchLastName:
			search.LastName = &value
		case domain.SearchEmail:
			search.Email = &value
		case domain.SearchNumber:
			number, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return search, fmt.Errorf("invalid phone number: %s", value)
			}
			search.Number = &number
		}
	}
	return search, nil
}

func toClientChange(req dto.ChangeClientRequest) (domain.ClientChange, error) {
	change := domain.ClientChange{Fields: domain.FieldSet{}}
	if req.FirstName != nil {
		change.Fields.Set(domain.FieldFirstName, *req.FirstName)
	}
	if req.LastName != nil {
		change.Fields.Set(domain.FieldLastName, *req.LastName)
	}
	if req.Email != nil {
		change.Fields.Set(domain.FieldEmail, *req.Email)
	}

	if (req.OldNumber == nil) != (req.NewNumber == nil) {
		return change, fmt.Errorf("old_number and new_number must be given together")
	}
	if req.OldNumber != nil {
		change.Phone = &domain.PhoneChange{OldNumber: *req.OldNumber, NewNumber: *req.NewNumber}
	}
	return change, nil
}
