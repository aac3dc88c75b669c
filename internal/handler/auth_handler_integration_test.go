package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-backoffice/internal/handler"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/repository"
	"hotel-backoffice/internal/service"
	"hotel-backoffice/internal/testutil"
	"hotel-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// AuthHandlerIntegrationTestSuite defines test suite
type AuthHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	authHandler *handler.AuthHandler
	router      *gin.Engine
}

// SetupSuite runs before all tests
func (s *AuthHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	// Initialize logger (required for handlers)
	logger.Init(false)

	// Start in-memory SQLite test database (migrations run automatically)
	s.testDB = testutil.SetupTestDatabase(s.T())

	// Setup repositories and services
	userRepo := repository.NewUserRepository(s.testDB.DB)
	authService := service.NewAuthService(userRepo, "test-secret-key", 1*time.Hour)

	// Setup handler
	s.authHandler = handler.NewAuthHandler(authService)

	// Setup router
	s.router = gin.New()
	s.router.POST("/auth/register", s.authHandler.Register)
	s.router.POST("/auth/login", s.authHandler.Login)
}

// TearDownSuite runs after all tests
func (s *AuthHandlerIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

// SetupTest runs before each test (clean database)
func (s *AuthHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *AuthHandlerIntegrationTestSuite) postJSON(path string, body map[string]string) *httptest.ResponseRecorder {
	bodyBytes, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func registerBody() map[string]string {
	return map[string]string{
		"name":     "New Guest",
		"email":    "newguest@example.com",
		"password": "GuestPass123",
		"phone":    "+1-555-0101",
		"address":  "2 Guest Avenue",
	}
}

// TestRegisterSuccess tests successful guest registration
func (s *AuthHandlerIntegrationTestSuite) TestRegisterSuccess() {
	w := s.postJSON("/auth/register", registerBody())

	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "guest", response["role"])

	user := response["user"].(map[string]interface{})
	assert.Equal(s.T(), "New Guest", user["name"])
	assert.Equal(s.T(), "newguest@example.com", user["email"])
	assert.Equal(s.T(), "guest", user["role"])
	assert.NotContains(s.T(), user, "passwordHash", "Password hash never leaves the server")
	assert.NotContains(s.T(), user, "password")
}

// TestRegisterDuplicateEmail tests registration with existing email
func (s *AuthHandlerIntegrationTestSuite) TestRegisterDuplicateEmail() {
	existing, err := testutil.CreateTestUser("existing", "newguest@example.com", "Pass123456", models.RoleGuest)
	s.Require().NoError(err)
	s.testDB.DB.Create(existing)

	w := s.postJSON("/auth/register", registerBody())

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(s.T(), response["error"], "already exists")
}

// TestRegisterMissingFields tests registration with an incomplete body
func (s *AuthHandlerIntegrationTestSuite) TestRegisterMissingFields() {
	body := registerBody()
	delete(body, "phone")

	w := s.postJSON("/auth/register", body)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(s.T(), response["error"], "please fill all the fields")
}

// TestRegisterCannotChooseRole tests that a role field in the body is ignored
func (s *AuthHandlerIntegrationTestSuite) TestRegisterCannotChooseRole() {
	body := registerBody()
	body["role"] = "admin"

	w := s.postJSON("/auth/register", body)

	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(s.T(), "guest", response["role"], "Self-registration is always guest")
}

// TestLoginSuccess tests successful login
func (s *AuthHandlerIntegrationTestSuite) TestLoginSuccess() {
	testUser, err := testutil.CreateTestUser("loginuser", "login@example.com", "LoginPass123", models.RoleManager)
	s.Require().NoError(err)
	s.testDB.DB.Create(testUser)

	w := s.postJSON("/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "LoginPass123",
	})

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(s.T(), err)
	assert.NotEmpty(s.T(), response["token"], "Login returns a bearer token")
	assert.Equal(s.T(), "manager", response["role"])

	user := response["user"].(map[string]interface{})
	assert.Equal(s.T(), "login@example.com", user["email"])
}

// TestLoginInvalidCredentials tests login with wrong password
func (s *AuthHandlerIntegrationTestSuite) TestLoginInvalidCredentials() {
	testUser, err := testutil.CreateTestUser("loginuser", "login@example.com", "CorrectPass123", models.RoleGuest)
	s.Require().NoError(err)
	s.testDB.DB.Create(testUser)

	w := s.postJSON("/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "WrongPass123",
	})

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(s.T(), response["error"], "invalid credentials")
}

// TestLoginNonExistentUser tests login with non-existent email
func (s *AuthHandlerIntegrationTestSuite) TestLoginNonExistentUser() {
	w := s.postJSON("/auth/login", map[string]string{
		"email":    "nonexistent@example.com",
		"password": "SomePass123",
	})

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

// TestLoginDeactivatedAccount tests that a deactivated account cannot log in
func (s *AuthHandlerIntegrationTestSuite) TestLoginDeactivatedAccount() {
	testUser, err := testutil.CreateTestUser("inactive", "inactive@example.com", "InactivePass1", models.RoleReceptionist)
	s.Require().NoError(err)
	testUser.IsActive = false
	s.testDB.DB.Create(testUser)

	w := s.postJSON("/auth/login", map[string]string{
		"email":    "inactive@example.com",
		"password": "InactivePass1",
	})

	assert.Equal(s.T(), http.StatusForbidden, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(s.T(), response["error"], "deactivated")
}

// TestSuite runs all tests in the suite
func TestAuthHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerIntegrationTestSuite))
}
