package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAuth(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	as := NewAuthService(
		NewCredentialStore(db),
		NewPasswordHasher(bcrypt.MinCost),
		NewTokenService("test-secret", 30*time.Minute),
		NewSessionRegistry(),
		logger.Nop(),
	)
	return as, db
}

func TestRegisterThenDuplicate(t *testing.T) {
	ctx := context.Background()
	as, _ := newTestAuth(t)

	st, err := as.RegisterStudent(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, st.ID)

	_, err = as.RegisterStudent(ctx, "A@X.com ", "other")
	require.Error(t, err)
	ae := apperr.As(err)
	assert.Equal(t, apperr.Conflict, ae.Kind)
	assert.Equal(t, msgEmailTaken, ae.Message)
}

func TestRegisterValidation(t *testing.T) {
	as, _ := newTestAuth(t)
	_, err := as.RegisterStudent(context.Background(), "not-an-email", "pw")
	assert.Equal(t, apperr.ValidationFailed, apperr.As(err).Kind)
	_, err = as.RegisterStudent(context.Background(), "a@x.com", "")
	assert.Equal(t, apperr.ValidationFailed, apperr.As(err).Kind)
}

func TestStudentLoginOutcomes(t *testing.T) {
	ctx := context.Background()
	as, db := newTestAuth(t)
	_, err := as.RegisterStudent(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = as.Login(ctx, models.KindStudent, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	notFound := apperr.As(err)

	_, err = as.Login(ctx, models.KindStudent, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
	wrong := apperr.As(err)

	assert.Equal(t, apperr.Unauthorized, notFound.Kind)
	assert.Equal(t, apperr.Unauthorized, wrong.Kind)
	assert.NotEqual(t, notFound.Message, wrong.Message)

	res, err := as.Login(ctx, models.KindStudent, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	assert.True(t, as.Sessions().Contains(res.SessionID))

	claims, err := as.Authenticate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.KindStudent, claims.Kind)
	assert.Equal(t, "a@x.com", claims.Email())

	require.NoError(t, db.Model(&models.Student{}).Where("email = ?", "a@x.com").Update("is_active", false).Error)
	_, err = as.Login(ctx, models.KindStudent, "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAdminLoginDisclosesWhichCredentialFailed(t *testing.T) {
	ctx := context.Background()
	as, _ := newTestAuth(t)

	created, err := as.EnsureBootstrapAdmin(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = as.EnsureBootstrapAdmin(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = as.Login(ctx, models.KindAdmin, "who@x.com", "admin123")
	assert.Contains(t, apperr.As(err).Message, "admin email")

	_, err = as.Login(ctx, models.KindAdmin, "admin@x.com", "nope")
	assert.Contains(t, apperr.As(err).Message, "admin password")

	res, err := as.Login(ctx, models.KindAdmin, "admin@x.com", "admin123")
	require.NoError(t, err)
	claims, err := as.Authenticate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.KindAdmin, claims.Kind)
}

func TestStudentCredentialsDoNotLogIntoAdmin(t *testing.T) {
	ctx := context.Background()
	as, _ := newTestAuth(t)
	_, err := as.RegisterStudent(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = as.Login(ctx, models.KindAdmin, "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLogoutRemovesSession(t *testing.T) {
	ctx := context.Background()
	as, _ := newTestAuth(t)
	_, err := as.RegisterStudent(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	res, err := as.Login(ctx, models.KindStudent, "a@x.com", "pw1")
	require.NoError(t, err)

	assert.True(t, as.Logout(res.SessionID))
	assert.False(t, as.Logout(res.SessionID))
	assert.False(t, as.Logout(""))

	// the token outlives its session
	_, err = as.Authenticate(res.AccessToken)
	assert.NoError(t, err)
}
