package service_test

import (
	"testing"
	"time"

	"hotel-backoffice/internal/apperrors"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/repository"
	"hotel-backoffice/internal/service"
	"hotel-backoffice/internal/testutil"
	"hotel-backoffice/internal/utils"
	"hotel-backoffice/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userRepo    *repository.UserRepository
	authService *service.AuthService
}

func (s *AuthServiceTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	s.authService = service.NewAuthService(s.userRepo, "test-secret-key", 1*time.Hour)
}

func (s *AuthServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *AuthServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *AuthServiceTestSuite) assertKind(err error, kind apperrors.Kind) {
	s.Require().Error(err)
	assert.Equal(s.T(), kind, apperrors.From(err).Kind)
}

func validRegisterInput() service.RegisterInput {
	return service.RegisterInput{
		Name:     "New Guest",
		Email:    "newguest@example.com",
		Password: "GuestPass123",
		Phone:    "+1-555-0101",
		Address:  "2 Guest Avenue",
	}
}

func (s *AuthServiceTestSuite) TestRegisterSuccess() {
	// Act
	user, err := s.authService.Register(validRegisterInput())

	// Assert
	s.Require().NoError(err)
	assert.Equal(s.T(), models.RoleGuest, user.Role, "Self-registration always produces a guest")
	assert.True(s.T(), user.IsActive)
	assert.NotEqual(s.T(), "GuestPass123", user.PasswordHash, "Password must be stored hashed")

	// Stored and retrievable
	stored, err := s.userRepo.GetUserByEmail("newguest@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
}

func (s *AuthServiceTestSuite) TestRegisterNormalizesEmail() {
	input := validRegisterInput()
	input.Email = "  MiXeD@Example.COM  "

	user, err := s.authService.Register(input)

	s.Require().NoError(err)
	assert.Equal(s.T(), "mixed@example.com", user.Email)
}

func (s *AuthServiceTestSuite) TestRegisterMissingFields() {
	input := validRegisterInput()
	input.Phone = ""

	_, err := s.authService.Register(input)

	s.assertKind(err, apperrors.KindValidation)
}

func (s *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	_, err := s.authService.Register(validRegisterInput())
	s.Require().NoError(err)

	// Same email, different casing: still a duplicate
	input := validRegisterInput()
	input.Email = "NEWGUEST@example.com"

	_, err = s.authService.Register(input)

	s.assertKind(err, apperrors.KindConflict)
}

func (s *AuthServiceTestSuite) TestRegisterRoleCannotBeInjected() {
	// The register input has no role field at all; the forced default is
	// what this guards.
	user, err := s.authService.Register(validRegisterInput())

	s.Require().NoError(err)
	assert.Equal(s.T(), models.RoleGuest, user.Role)
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	_, err := s.authService.Register(validRegisterInput())
	s.Require().NoError(err)

	token, user, err := s.authService.Login("newguest@example.com", "GuestPass123")

	s.Require().NoError(err)
	assert.NotEmpty(s.T(), token)
	assert.Equal(s.T(), models.RoleGuest, user.Role)

	// The token must carry the right identity
	claims, err := utils.ValidateToken(token, "test-secret-key")
	s.Require().NoError(err)
	assert.Equal(s.T(), user.ID, claims.UserID)
	assert.Equal(s.T(), models.RoleGuest, claims.Role)
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := s.authService.Register(validRegisterInput())
	s.Require().NoError(err)

	_, _, err = s.authService.Login("newguest@example.com", "WrongPass999")

	s.assertKind(err, apperrors.KindAuth)
}

func (s *AuthServiceTestSuite) TestLoginUnknownEmail() {
	_, _, err := s.authService.Login("nobody@example.com", "AnyPass123")

	s.assertKind(err, apperrors.KindAuth)
}

func (s *AuthServiceTestSuite) TestLoginDeactivatedAccount() {
	user, err := s.authService.Register(validRegisterInput())
	s.Require().NoError(err)

	user.IsActive = false
	s.Require().NoError(s.userRepo.SaveUser(user))

	_, _, err = s.authService.Login("newguest@example.com", "GuestPass123")

	s.assertKind(err, apperrors.KindForbidden)
}

func (s *AuthServiceTestSuite) TestAuthenticateSuccess() {
	_, err := s.authService.Register(validRegisterInput())
	s.Require().NoError(err)
	token, registered, err := s.authService.Login("newguest@example.com", "GuestPass123")
	s.Require().NoError(err)

	user, err := s.authService.Authenticate(token)

	s.Require().NoError(err)
	assert.Equal(s.T(), registered.ID, user.ID)
}

func (s *AuthServiceTestSuite) TestAuthenticateEmptyToken() {
	_, err := s.authService.Authenticate("")

	s.assertKind(err, apperrors.KindAuth)
}

func (s *AuthServiceTestSuite) TestAuthenticateGarbageToken() {
	_, err := s.authService.Authenticate("not-a-token")

	s.assertKind(err, apperrors.KindAuth)
}

func (s *AuthServiceTestSuite) TestAuthenticateDeletedAccount() {
	// A valid token outliving a hard-deleted account must stop working.
	user, err := s.authService.Register(validRegisterInput())
	s.Require().NoError(err)
	token, _, err := s.authService.Login("newguest@example.com", "GuestPass123")
	s.Require().NoError(err)

	s.Require().NoError(s.userRepo.DeleteUser(user.ID))

	_, err = s.authService.Authenticate(token)

	s.assertKind(err, apperrors.KindAuth)
}

func (s *AuthServiceTestSuite) TestAuthenticateDeactivatedAccount() {
	user, err := s.authService.Register(validRegisterInput())
	s.Require().NoError(err)
	token, _, err := s.authService.Login("newguest@example.com", "GuestPass123")
	s.Require().NoError(err)

	user.IsActive = false
	s.Require().NoError(s.userRepo.SaveUser(user))

	_, err = s.authService.Authenticate(token)

	s.assertKind(err, apperrors.KindForbidden)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
