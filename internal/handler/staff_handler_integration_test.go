package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-backoffice/internal/handler"
	"hotel-backoffice/internal/middleware"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/repository"
	"hotel-backoffice/internal/service"
	"hotel-backoffice/internal/testutil"
	"hotel-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StaffHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userRepo    *repository.UserRepository
	authService *service.AuthService
	router      *gin.Engine
}

func (s *StaffHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())

	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	s.authService = service.NewAuthService(s.userRepo, "test-secret-key", 1*time.Hour)
	staffService := service.NewStaffService(s.userRepo, nil)
	staffHandler := handler.NewStaffHandler(staffService)

	// Same route shape as the server wiring
	s.router = gin.New()
	staff := s.router.Group("/auth")
	staff.Use(middleware.Authenticate(s.authService))
	staff.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		staff.POST("/createstaff", staffHandler.CreateStaff)
		staff.GET("/staff", staffHandler.GetStaff)
		staff.PUT("/staff/:id", staffHandler.UpdateStaff)
		staff.DELETE("/staff/:id", staffHandler.DeleteStaff)
		staff.PATCH("/staff/:id/status", staffHandler.UpdateStaffStatus)
	}
}

func (s *StaffHandlerIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *StaffHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

// seedUser inserts a user and returns a valid bearer token for them.
func (s *StaffHandlerIntegrationTestSuite) seedUser(name, email string, role models.Role) (*models.User, string) {
	user, err := testutil.CreateTestUser(name, email, "SeedPass123", role)
	s.Require().NoError(err)
	s.Require().NoError(s.userRepo.CreateUser(user))

	token, _, err := s.authService.Login(email, "SeedPass123")
	s.Require().NoError(err)

	return user, token
}

func (s *StaffHandlerIntegrationTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func createStaffBody() map[string]string {
	return map[string]string{
		"name":       "Front Desk",
		"email":      "frontdesk@example.com",
		"password":   "StaffPass123",
		"phone":      "+1-555-0102",
		"address":    "3 Staff Road",
		"department": "Reception",
		"role":       "receptionist",
	}
}

func (s *StaffHandlerIntegrationTestSuite) TestCreateStaffAsAdmin() {
	_, token := s.seedUser("admin", "admin@example.com", models.RoleAdmin)

	w := s.request(http.MethodPost, "/auth/createstaff", token, createStaffBody())

	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	staff := response["staff"].(map[string]interface{})
	assert.Equal(s.T(), "receptionist", staff["role"])
	assert.Equal(s.T(), "Reception", staff["department"])

	// The new staff member can immediately log in
	_, _, err := s.authService.Login("frontdesk@example.com", "StaffPass123")
	assert.NoError(s.T(), err)
}

func (s *StaffHandlerIntegrationTestSuite) TestCreateStaffWithoutToken() {
	w := s.request(http.MethodPost, "/auth/createstaff", "", createStaffBody())

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *StaffHandlerIntegrationTestSuite) TestCreateStaffAsNonAdmin() {
	_, token := s.seedUser("manager", "manager@example.com", models.RoleManager)

	w := s.request(http.MethodPost, "/auth/createstaff", token, createStaffBody())

	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *StaffHandlerIntegrationTestSuite) TestCreateStaffGuestRole() {
	_, token := s.seedUser("admin", "admin@example.com", models.RoleAdmin)

	body := createStaffBody()
	body["role"] = "guest"
	w := s.request(http.MethodPost, "/auth/createstaff", token, body)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(s.T(), response["error"], "invalid role")
}

func (s *StaffHandlerIntegrationTestSuite) TestGetStaffListsCount() {
	_, token := s.seedUser("admin", "admin@example.com", models.RoleAdmin)
	s.seedUser("guest", "guest@example.com", models.RoleGuest)
	s.seedUser("cleaner", "cleaner@example.com", models.RoleHousekeeping)

	w := s.request(http.MethodGet, "/auth/staff", token, nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(s.T(), float64(2), response["count"], "Admin and housekeeping; the guest is excluded")
	assert.Len(s.T(), response["staff"], 2)
}

func (s *StaffHandlerIntegrationTestSuite) TestUpdateStaff() {
	_, token := s.seedUser("admin", "admin@example.com", models.RoleAdmin)
	staff, _ := s.seedUser("cleaner", "cleaner@example.com", models.RoleHousekeeping)

	w := s.request(http.MethodPut, "/auth/staff/"+staff.ID.String(), token, map[string]string{
		"department": "Facilities",
		"role":       "maintenance",
	})

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	updated := response["staff"].(map[string]interface{})
	assert.Equal(s.T(), "Facilities", updated["department"])
	assert.Equal(s.T(), "maintenance", updated["role"])
	assert.Equal(s.T(), "cleaner", updated["name"], "Absent fields keep their values")
}

func (s *StaffHandlerIntegrationTestSuite) TestUpdateStaffNotFound() {
	_, token := s.seedUser("admin", "admin@example.com", models.RoleAdmin)

	w := s.request(http.MethodPut, "/auth/staff/6ba7b810-9dad-11d1-80b4-00c04fd430c8", token, map[string]string{
		"department": "Facilities",
	})

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *StaffHandlerIntegrationTestSuite) TestUpdateStaffBadID() {
	_, token := s.seedUser("admin", "admin@example.com", models.RoleAdmin)

	w := s.request(http.MethodPut, "/auth/staff/not-a-uuid", token, map[string]string{
		"department": "Facilities",
	})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *StaffHandlerIntegrationTestSuite) TestDeleteStaffRevokesAccess() {
	_, adminToken := s.seedUser("admin", "admin@example.com", models.RoleAdmin)
	staff, staffToken := s.seedUser("cleaner", "cleaner@example.com", models.RoleHousekeeping)

	w := s.request(http.MethodDelete, "/auth/staff/"+staff.ID.String(), adminToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	// The deleted account's still-valid token no longer authenticates
	w = s.request(http.MethodGet, "/auth/staff", staffToken, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *StaffHandlerIntegrationTestSuite) TestDeactivatedStaffLosesAccessImmediately() {
	_, adminToken := s.seedUser("admin", "admin@example.com", models.RoleAdmin)
	other, otherToken := s.seedUser("admin2", "admin2@example.com", models.RoleAdmin)

	// The second admin can list staff before deactivation
	w := s.request(http.MethodGet, "/auth/staff", otherToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = s.request(http.MethodPatch, "/auth/staff/"+other.ID.String()+"/status", adminToken, map[string]bool{
		"isActive": false,
	})
	assert.Equal(s.T(), http.StatusOK, w.Code)

	// Same token, next request: locked out
	w = s.request(http.MethodGet, "/auth/staff", otherToken, nil)
	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *StaffHandlerIntegrationTestSuite) TestReactivatedStaffRegainsAccess() {
	_, adminToken := s.seedUser("admin", "admin@example.com", models.RoleAdmin)
	other, otherToken := s.seedUser("admin2", "admin2@example.com", models.RoleAdmin)

	s.request(http.MethodPatch, "/auth/staff/"+other.ID.String()+"/status", adminToken, map[string]bool{
		"isActive": false,
	})
	s.request(http.MethodPatch, "/auth/staff/"+other.ID.String()+"/status", adminToken, map[string]bool{
		"isActive": true,
	})

	w := s.request(http.MethodGet, "/auth/staff", otherToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code, "The original token works again after reactivation")
}

func TestStaffHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StaffHandlerIntegrationTestSuite))
}
