package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientbook/internal/api/dto"
	"github.com/martijn/clientbook/internal/core/domain"
	"github.com/martijn/clientbook/internal/core/service"
	"github.com/martijn/clientbook/internal/infrastructure/sqldb"
	"github.com/martijn/clientbook/internal/logging"
)

// testEnv holds all test dependencies
type testEnv struct {
	db            *sqldb.DB
	router        *gin.Engine
	clientService *service.ClientService
}

// setupTestEnv creates a test environment with in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Use in-memory SQLite database
	db, err := sqldb.New(sqldb.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.InitializeSchema(context.Background()); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	clientService := service.NewClientService(sqldb.NewClientPhoneRepository(db), logging.Discard())
	clientHandler := NewClientHandler(clientService)

	// Setup gin router in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/clients", clientHandler.CreateClient)
	router.GET("/clients", clientHandler.ListClients)
	router.GET("/clients/:id", clientHandler.GetClient)
	router.PATCH("/clients/:id", clientHandler.UpdateClient)
	router.DELETE("/clients/:id", clientHandler.DeleteClient)
	router.POST("/clients/:id/phones", clientHandler.AddPhone)
	router.DELETE("/clients/:id/phones/:number", clientHandler.DeletePhone)

	env := &testEnv{
		db:            db,
		router:        router,
		clientService: clientService,
	}
	t.Cleanup(env.cleanup)
	return env
}

// cleanup closes the test database
func (env *testEnv) cleanup() {
	if env.db != nil {
		env.db.Close()
	}
}

// seedClient adds a client with the given numbers and returns its ID
func (env *testEnv) seedClient(t *testing.T, first, last, email string, numbers ...int64) int64 {
	t.Helper()

	ctx := context.Background()
	in := domain.NewClient{FirstName: first, LastName: last, Email: email}
	if len(numbers) > 0 {
		in.Number = ptr(numbers[0])
	}
	result, err := env.clientService.AddClient(ctx, in)
	if err != nil || !result.OK() {
		t.Fatalf("failed to seed client %s: %v %+v", email, err, result)
	}

	id := result.Rows[0].ClientID
	for _, n := range numbers[min(1, len(numbers)):] {
		if result, err := env.clientService.AddPhone(ctx, id, n); err != nil || !result.OK() {
			t.Fatalf("failed to seed phone %d: %v %+v", n, err, result)
		}
	}
	return id
}

// seedTestData adds the clients used by the listing and search tests
func (env *testEnv) seedTestData(t *testing.T) {
	t.Helper()

	env.seedClient(t, "Ilya", "Muromets", "ilya@mail.ru", 89003003300, 89003003301)
	env.seedClient(t, "Dobrynya", "Nikitich", "dobrynya@mail.ru", 89004004400)
	env.seedClient(t, "Alyosha", "Popovich", "alyosha@gmail.com")
	env.seedClient(t, "Ilya", "Popovich", "ilya.p@gmail.com", 89005005500)
}

// makeRequest performs a request with an optional JSON body and returns the response
func (env *testEnv) makeRequest(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// parseResultResponse parses the response body into ResultResponse
func parseResultResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ResultResponse {
	t.Helper()

	var resp dto.ResultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// parseClientListResponse parses the response body into ClientListResponse
func parseClientListResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ClientListResponse {
	t.Helper()

	var resp dto.ClientListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// numbersOf collects the non-null numbers of a response in order
func numbersOf(items []dto.ClientRowResponse) []int64 {
	var numbers []int64
	for _, item := range items {
		if item.Number != nil {
			numbers = append(numbers, *item.Number)
		}
	}
	return numbers
}

// ptr is a helper to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
