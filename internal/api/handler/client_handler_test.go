package handler

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/martijn/clientbook/internal/core/domain"
)

func TestCreateClient(t *testing.T) {
	tests := []struct {
		name            string
		body            any
		expectedStatus  int
		expectedNumbers []int64
	}{
		{
			name:           "client without phone",
			body:           map[string]any{"first_name": "Alyosha", "last_name": "Popovich", "email": "alyosha@gmail.com"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:            "client with first phone",
			body:            map[string]any{"first_name": "Ilya", "last_name": "Muromets", "email": "ilya@mail.ru", "number": 89003003300},
			expectedStatus:  http.StatusCreated,
			expectedNumbers: []int64{89003003300},
		},
		{
			name:           "missing email returns 400",
			body:           map[string]any{"first_name": "Ilya", "last_name": "Muromets"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "too long first name returns 400",
			body:           map[string]any{"first_name": strings.Repeat("a", 41), "last_name": "Muromets", "email": "x@mail.ru"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative number returns 400",
			body:           map[string]any{"first_name": "Ilya", "last_name": "Muromets", "email": "neg@mail.ru", "number": -5},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json returns 400",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)

			w := env.makeRequest(t, http.MethodPost, "/clients", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if w.Code != http.StatusCreated {
				errResp := parseErrorResponse(t, w)
				if errResp.Code != tt.expectedStatus {
					t.Errorf("expected error code %d, got %d", tt.expectedStatus, errResp.Code)
				}
				return
			}

			resp := parseResultResponse(t, w)
			if resp.Outcome != string(domain.OutcomeSuccess) {
				t.Errorf("expected success outcome, got %s", resp.Outcome)
			}
			if len(resp.Items) != 1 {
				t.Fatalf("expected 1 projection row, got %d", len(resp.Items))
			}
			if got := numbersOf(resp.Items); !reflect.DeepEqual(got, tt.expectedNumbers) {
				t.Errorf("expected numbers %v, got %v", tt.expectedNumbers, got)
			}
		})
	}
}

func TestCreateClientDuplicateEmailConflicts(t *testing.T) {
	env := setupTestEnv(t)
	env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru")

	w := env.makeRequest(t, http.MethodPost, "/clients", map[string]any{
		"first_name": "Other", "last_name": "Person", "email": "ilya@mail.ru",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListClients(t *testing.T) {
	tests := []struct {
		name            string
		queryString     string
		expectedStatus  int
		expectedCount   int // rows in the response
		expectedTotal   int // total in pagination
		expectedClients []int64
	}{
		{
			name:            "basic listing returns every client with its phones",
			queryString:     "",
			expectedStatus:  http.StatusOK,
			expectedCount:   5,
			expectedTotal:   4,
			expectedClients: []int64{1, 1, 2, 3, 4},
		},
		{
			name:            "order by last_name descending",
			queryString:     "?order=last_name|desc,id|asc",
			expectedStatus:  http.StatusOK,
			expectedCount:   5,
			expectedTotal:   4,
			expectedClients: []int64{3, 4, 2, 1, 1},
		},
		{
			name:            "pagination counts clients not rows",
			queryString:     "?page=1&per_page=1",
			expectedStatus:  http.StatusOK,
			expectedCount:   2,
			expectedTotal:   4,
			expectedClients: []int64{1, 1},
		},
		{
			name:            "pagination page 2 with per_page 2",
			queryString:     "?page=2&per_page=2",
			expectedStatus:  http.StatusOK,
			expectedCount:   2,
			expectedTotal:   4,
			expectedClients: []int64{3, 4},
		},
		{
			name:            "search by first name",
			queryString:     "?query=first_name|Ilya",
			expectedStatus:  http.StatusOK,
			expectedCount:   3,
			expectedTotal:   3,
			expectedClients: []int64{1, 1, 4},
		},
		{
			name:            "search combines filters with AND",
			queryString:     "?query=first_name|Ilya,last_name|Popovich",
			expectedStatus:  http.StatusOK,
			expectedCount:   1,
			expectedTotal:   1,
			expectedClients: []int64{4},
		},
		{
			name:            "search by number with explicit eq",
			queryString:     "?query=number|eq|89004004400",
			expectedStatus:  http.StatusOK,
			expectedCount:   1,
			expectedTotal:   1,
			expectedClients: []int64{2},
		},
		{
			name:            "search by email finds client without phones",
			queryString:     "?query=email|alyosha@gmail.com",
			expectedStatus:  http.StatusOK,
			expectedCount:   1,
			expectedTotal:   1,
			expectedClients: []int64{3},
		},
		{
			name:           "search without match returns empty list",
			queryString:    "?query=first_name|Nobody",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid query field returns 400",
			queryString:    "?query=invalid_field|value",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-numeric number returns 400",
			queryString:    "?query=number|abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty query returns 400",
			queryString:    "?query=",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid order field returns 400",
			queryString:    "?order=invalid_field|desc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.seedTestData(t)

			w := env.makeRequest(t, http.MethodGet, "/clients"+tt.queryString, nil)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if w.Code != http.StatusOK {
				return
			}

			resp := parseClientListResponse(t, w)
			if len(resp.Items) != tt.expectedCount {
				t.Errorf("expected %d items, got %d", tt.expectedCount, len(resp.Items))
			}
			if resp.Pagination.Total != tt.expectedTotal {
				t.Errorf("expected total %d, got %d", tt.expectedTotal, resp.Pagination.Total)
			}

			if tt.expectedClients != nil {
				got := make([]int64, len(resp.Items))
				for i, item := range resp.Items {
					got[i] = item.ClientID
				}
				if !reflect.DeepEqual(got, tt.expectedClients) {
					t.Errorf("expected client IDs %v, got %v", tt.expectedClients, got)
				}
			}
		})
	}
}

func TestListClientsPaginationInfo(t *testing.T) {
	env := setupTestEnv(t)
	env.seedTestData(t)

	w := env.makeRequest(t, http.MethodGet, "/clients?page=2&per_page=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	resp := parseClientListResponse(t, w)
	if resp.Pagination.Page != 2 || resp.Pagination.PerPage != 3 || resp.Pagination.TotalPages != 2 {
		t.Errorf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestGetClient(t *testing.T) {
	env := setupTestEnv(t)
	id := env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru", 89003003301, 89003003300)

	w := env.makeRequest(t, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseResultResponse(t, w)
	if got := numbersOf(resp.Items); !reflect.DeepEqual(got, []int64{89003003300, 89003003301}) {
		t.Errorf("expected numbers in ascending order, got %v", got)
	}

	w = env.makeRequest(t, http.MethodGet, "/clients/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown client, got %d", w.Code)
	}

	w = env.makeRequest(t, http.MethodGet, "/clients/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for malformed id, got %d", w.Code)
	}
}

func TestUpdateClient(t *testing.T) {
	tests := []struct {
		name            string
		clientID        string
		body            any
		expectedStatus  int
		expectedName    string
		expectedNumbers []int64
	}{
		{
			name:            "change first name only",
			body:            map[string]any{"first_name": "Dobrynya"},
			expectedStatus:  http.StatusOK,
			expectedName:    "Dobrynya",
			expectedNumbers: []int64{89003003300},
		},
		{
			name:            "swap phone number",
			body:            map[string]any{"old_number": 89003003300, "new_number": 89007007700},
			expectedStatus:  http.StatusOK,
			expectedName:    "Ilya",
			expectedNumbers: []int64{89007007700},
		},
		{
			name:           "unknown old number returns 404 and keeps field updates",
			body:           map[string]any{"first_name": "Changed", "old_number": 1, "new_number": 2},
			expectedStatus: http.StatusNotFound,
			expectedName:   "Changed",
		},
		{
			name:           "one-sided phone change returns 400",
			body:           map[string]any{"new_number": 89007007700},
			expectedStatus: http.StatusBadRequest,
			expectedName:   "Ilya",
		},
		{
			name:           "empty name returns 400",
			body:           map[string]any{"last_name": ""},
			expectedStatus: http.StatusBadRequest,
			expectedName:   "Ilya",
		},
		{
			name:           "unknown client returns 404",
			clientID:       "999",
			body:           map[string]any{"first_name": "Nobody"},
			expectedStatus: http.StatusNotFound,
			expectedName:   "Ilya",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			id := env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru", 89003003300)

			clientID := tt.clientID
			if clientID == "" {
				clientID = fmt.Sprint(id)
			}

			w := env.makeRequest(t, http.MethodPatch, "/clients/"+clientID, tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			w = env.makeRequest(t, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil)
			resp := parseResultResponse(t, w)
			if len(resp.Items) == 0 {
				t.Fatalf("client %d disappeared", id)
			}
			if resp.Items[0].FirstName != tt.expectedName {
				t.Errorf("expected first name %q, got %q", tt.expectedName, resp.Items[0].FirstName)
			}
			if tt.expectedNumbers != nil {
				if got := numbersOf(resp.Items); !reflect.DeepEqual(got, tt.expectedNumbers) {
					t.Errorf("expected numbers %v, got %v", tt.expectedNumbers, got)
				}
			}
		})
	}
}

func TestUpdateClientNumberTakenConflicts(t *testing.T) {
	env := setupTestEnv(t)
	id := env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru", 89003003300)
	env.seedClient(t, "Dobrynya", "Nikitich", "dobrynya@mail.ru", 89004004400)

	w := env.makeRequest(t, http.MethodPatch, fmt.Sprintf("/clients/%d", id), map[string]any{
		"first_name": "Changed", "old_number": 89003003300, "new_number": 89004004400,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}

	// The whole change rolls back
	w = env.makeRequest(t, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil)
	resp := parseResultResponse(t, w)
	if resp.Items[0].FirstName != "Ilya" {
		t.Errorf("expected first name to be unchanged, got %q", resp.Items[0].FirstName)
	}
}

func TestAddPhone(t *testing.T) {
	env := setupTestEnv(t)
	id := env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru", 89003003300)
	other := env.seedClient(t, "Dobrynya", "Nikitich", "dobrynya@mail.ru", 89004004400)

	path := fmt.Sprintf("/clients/%d/phones", id)

	w := env.makeRequest(t, http.MethodPost, path, map[string]any{"number": 89003003301})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResultResponse(t, w)
	if got := numbersOf(resp.Items); !reflect.DeepEqual(got, []int64{89003003300, 89003003301}) {
		t.Errorf("unexpected numbers %v", got)
	}

	w = env.makeRequest(t, http.MethodPost, path, map[string]any{"number": 89003003301})
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409 for already attached number, got %d", w.Code)
	}

	w = env.makeRequest(t, http.MethodPost, path, map[string]any{"number": 89004004400})
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409 for number owned by client %d, got %d", other, w.Code)
	}

	w = env.makeRequest(t, http.MethodPost, "/clients/999/phones", map[string]any{"number": 1})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown client, got %d", w.Code)
	}

	w = env.makeRequest(t, http.MethodPost, path, map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for missing number, got %d", w.Code)
	}
}

func TestDeletePhone(t *testing.T) {
	env := setupTestEnv(t)
	id := env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru", 89003003300, 89003003301)

	w := env.makeRequest(t, http.MethodDelete, fmt.Sprintf("/clients/%d/phones/89003003300", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResultResponse(t, w)
	if got := numbersOf(resp.Items); !reflect.DeepEqual(got, []int64{89003003301}) {
		t.Errorf("unexpected numbers %v", got)
	}

	// Deleting an absent pair is a no-op
	w = env.makeRequest(t, http.MethodDelete, fmt.Sprintf("/clients/%d/phones/89003003300", id), nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for absent phone, got %d", w.Code)
	}

	w = env.makeRequest(t, http.MethodDelete, fmt.Sprintf("/clients/%d/phones/abc", id), nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for malformed number, got %d", w.Code)
	}
}

func TestDeleteClient(t *testing.T) {
	env := setupTestEnv(t)
	id := env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru", 89003003300, 89003003301)

	w := env.makeRequest(t, http.MethodDelete, fmt.Sprintf("/clients/%d", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResultResponse(t, w)
	if len(resp.Items) != 0 {
		t.Errorf("expected empty projection after delete, got %d rows", len(resp.Items))
	}

	var phones int
	if err := env.db.Get(&phones, "SELECT COUNT(*) FROM phone"); err != nil {
		t.Fatalf("failed to count phones: %v", err)
	}
	if phones != 0 {
		t.Errorf("expected phones to be deleted with the client, got %d", phones)
	}

	w = env.makeRequest(t, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", w.Code)
	}
}
