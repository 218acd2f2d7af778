package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkleiven/coursequeue-api/internal/models"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]*models.TeacherUser
	byEmail map[string]*models.TeacherUser
	created *models.TeacherUser
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.TeacherUser, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.TeacherUser, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.TeacherUser) error {
	if user.ID == "" {
		user.ID = "new-user"
	}
	m.created = user
	return nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "coursequeue-api"}
}

func newAuthService(users *mockUserRepo, teachers *mockTeacherReader) *AuthService {
	return NewAuthService(users, teachers, validator.New(), zap.NewNop(), testAuthConfig())
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUserRepo{byEmail: map[string]*models.TeacherUser{
		"teacher@ntnu.no": {ID: "u1", Email: "teacher@ntnu.no", PasswordHash: string(hash), TeacherID: "t1"},
	}}
	svc := newAuthService(users, &mockTeacherReader{})

	result, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@ntnu.no", Password: "correct horse"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "t1", result.User.TeacherID)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "t1", claims.TeacherID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUserRepo{byEmail: map[string]*models.TeacherUser{
		"teacher@ntnu.no": {ID: "u1", Email: "teacher@ntnu.no", PasswordHash: string(hash)},
	}}
	svc := newAuthService(users, &mockTeacherReader{})

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "teacher@ntnu.no", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(&mockUserRepo{}, &mockTeacherReader{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@ntnu.no", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegister(t *testing.T) {
	users := &mockUserRepo{}
	teachers := &mockTeacherReader{teachers: map[string]*models.Teacher{"t1": {Person: models.Person{ID: "t1"}}}}
	svc := newAuthService(users, teachers)

	user, err := svc.Register(context.Background(), RegisterRequest{Email: "teacher@ntnu.no", Password: "longpassword", TeacherID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "t1", user.TeacherID)
	require.NotNil(t, users.created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.created.PasswordHash), []byte("longpassword")))
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	users := &mockUserRepo{byEmail: map[string]*models.TeacherUser{"teacher@ntnu.no": {ID: "u1"}}}
	teachers := &mockTeacherReader{teachers: map[string]*models.Teacher{"t1": {Person: models.Person{ID: "t1"}}}}
	svc := newAuthService(users, teachers)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "teacher@ntnu.no", Password: "longpassword", TeacherID: "t1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDomain.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockUserRepo{}, &mockTeacherReader{})

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
