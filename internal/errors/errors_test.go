package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Set Gin to test mode to suppress logs during tests
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID in context.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Create a test request
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	// Add logger to context (using development logger for tests)
	log := logger.New("development")
	c.Set("logger", log)

	// Add request ID to context
	c.Set(middleware.RequestIDKey, "test-request-id")

	return c, w
}

// parseErrorResponse parses the JSON response into an ErrorResponse struct.
func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func TestNotFound(t *testing.T) {
	c, w := setupTestContext()

	NotFound(c, "Unit not found")

	// Check status code
	assert.Equal(t, http.StatusNotFound, w.Code, "Expected status 404 Not Found")

	// Parse response
	response := parseErrorResponse(t, w.Body)

	// Verify error structure
	assert.Equal(t, ErrNotFound, response.Error.Code, "Expected NOT_FOUND error code")
	assert.Equal(t, "Unit not found", response.Error.Message, "Expected correct error message")
	assert.Equal(t, "test-request-id", response.Error.RequestID, "Expected request ID in response")
	assert.Nil(t, response.Error.Details, "Expected no details for NotFound")
}

func TestBadRequest(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code, "Expected status 400 Bad Request")

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code, "Expected BAD_REQUEST error code")
		assert.Equal(t, "Invalid input", response.Error.Message, "Expected correct error message")
		assert.Equal(t, "test-request-id", response.Error.RequestID, "Expected request ID in response")
		assert.Nil(t, response.Error.Details, "Expected no details when nil is passed")
	})

	t.Run("with details", func(t *testing.T) {
		c, w := setupTestContext()

		details := map[string]interface{}{
			"field": "status",
			"value": "LEASED",
		}
		BadRequest(c, "Invalid input", details)

		assert.Equal(t, http.StatusBadRequest, w.Code, "Expected status 400 Bad Request")

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code, "Expected BAD_REQUEST error code")
		assert.Equal(t, "Invalid input", response.Error.Message, "Expected correct error message")
		assert.Equal(t, "test-request-id", response.Error.RequestID, "Expected request ID in response")
		assert.NotNil(t, response.Error.Details, "Expected details to be present")
		assert.Equal(t, "status", response.Error.Details["field"], "Expected field in details")
		assert.Equal(t, "LEASED", response.Error.Details["value"], "Expected value in details")
	})
}

func TestInternalServerError(t *testing.T) {
	c, w := setupTestContext()

	testErr := errors.New("warehouse connection failed")
	InternalServerError(c, "An unexpected error occurred", testErr)

	assert.Equal(t, http.StatusInternalServerError, w.Code, "Expected status 500 Internal Server Error")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code, "Expected INTERNAL_SERVER_ERROR code")
	assert.Equal(t, "An unexpected error occurred", response.Error.Message, "Expected correct error message")
	assert.Equal(t, "test-request-id", response.Error.RequestID, "Expected request ID in response")
	assert.Nil(t, response.Error.Details, "Expected no details for InternalServerError")
}

func TestServiceUnavailable(t *testing.T) {
	c, w := setupTestContext()

	testErr := errors.New("connection refused")
	ServiceUnavailable(c, "Warehouse is unreachable", testErr)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "Expected status 503 Service Unavailable")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrDatabaseConnection, response.Error.Code, "Expected DATABASE_CONNECTION_ERROR code")
	assert.Equal(t, "Warehouse is unreachable", response.Error.Message, "Expected correct error message")
}

func TestValidationError(t *testing.T) {
	c, w := setupTestContext()

	// Create a test struct with validation tags
	type TestStruct struct {
		Strategy string `validate:"required,oneof=revenue lease_up balanced"`
		Weight   int    `validate:"required,gte=0"`
	}

	// Create validator and validate a struct that fails validation
	validate := validator.New()
	testData := TestStruct{
		Strategy: "aggressive",
		Weight:   -1,
	}

	err := validate.Struct(testData)
	require.Error(t, err, "Expected validation to fail")

	// Extract validation errors
	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok, "Expected validator.ValidationErrors")

	// Call ValidationError function
	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code, "Expected status 400 Bad Request")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code, "Expected VALIDATION_ERROR code")
	assert.Equal(t, "Validation failed for one or more fields", response.Error.Message)
	assert.Equal(t, "test-request-id", response.Error.RequestID, "Expected request ID in response")
	assert.NotNil(t, response.Error.Details, "Expected details to be present")

	// Check that specific fields are in the details
	_, hasStrategy := response.Error.Details["Strategy"]
	_, hasWeight := response.Error.Details["Weight"]
	assert.True(t, hasStrategy || hasWeight, "Expected at least one validation error field")
}

func TestFormatValidationError(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		param    string
		expected string
	}{
		{
			name:     "required",
			tag:      "required",
			param:    "",
			expected: "This field is required",
		},
		{
			name:     "min",
			tag:      "min",
			param:    "1",
			expected: "Value is too short or small (minimum: 1)",
		},
		{
			name:     "max",
			tag:      "max",
			param:    "500",
			expected: "Value is too long or large (maximum: 500)",
		},
		{
			name:     "gt",
			tag:      "gt",
			param:    "0",
			expected: "Must be greater than 0",
		},
		{
			name:     "gte",
			tag:      "gte",
			param:    "1",
			expected: "Must be greater than or equal to 1",
		},
		{
			name:     "lt",
			tag:      "lt",
			param:    "100",
			expected: "Must be less than 100",
		},
		{
			name:     "lte",
			tag:      "lte",
			param:    "1",
			expected: "Must be less than or equal to 1",
		},
		{
			name:     "oneof",
			tag:      "oneof",
			param:    "revenue lease_up balanced",
			expected: "Must be one of: revenue lease_up balanced",
		},
		{
			name:     "unknown",
			tag:      "unknown_tag",
			param:    "",
			expected: "Validation failed for tag: unknown_tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a mock FieldError
			mockErr := &mockFieldError{
				tag:   tt.tag,
				param: tt.param,
			}

			result := formatValidationError(mockErr)
			assert.Equal(t, tt.expected, result, "Expected correct validation error message")
		})
	}
}

func TestErrorResponseWithoutContext(t *testing.T) {
	// Test that error functions work even without logger/request ID in context
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	// Call NotFound without setting up context (no logger, no request ID)
	NotFound(c, "Unit not found")

	assert.Equal(t, http.StatusNotFound, w.Code, "Expected status 404 even without context")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code, "Expected error code")
	assert.Equal(t, "Unit not found", response.Error.Message, "Expected error message")
	// Request ID should be empty string if not in context
	assert.Empty(t, response.Error.RequestID, "Expected empty request ID when not in context")
}

func TestErrorConstants(t *testing.T) {
	// Verify error code constants are defined
	assert.Equal(t, "NOT_FOUND", ErrNotFound)
	assert.Equal(t, "BAD_REQUEST", ErrBadRequest)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", ErrInternalServer)
	assert.Equal(t, "VALIDATION_ERROR", ErrValidation)
	assert.Equal(t, "DATABASE_CONNECTION_ERROR", ErrDatabaseConnection)
}

// mockFieldError is a mock implementation of validator.FieldError for testing.
type mockFieldError struct {
	tag   string
	param string
}

func (m *mockFieldError) Tag() string                    { return m.tag }
func (m *mockFieldError) ActualTag() string              { return m.tag }
func (m *mockFieldError) Namespace() string              { return "" }
func (m *mockFieldError) StructNamespace() string        { return "" }
func (m *mockFieldError) Field() string                  { return "TestField" }
func (m *mockFieldError) StructField() string            { return "TestField" }
func (m *mockFieldError) Value() interface{}             { return nil }
func (m *mockFieldError) Param() string                  { return m.param }
func (m *mockFieldError) Kind() reflect.Kind             { return reflect.String }
func (m *mockFieldError) Type() reflect.Type             { return nil }
func (m *mockFieldError) Translate(ut.Translator) string { return "" }
func (m *mockFieldError) Error() string                  { return "" }
