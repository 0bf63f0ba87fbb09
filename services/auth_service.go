package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/metrics"
	"github.com/vnkhanh/sloka-backend/models"
)

// Terminal login outcomes other than success. They are wrapped in the
// apperr.Error returned by Login so callers can tell them apart.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account inactive")
	ErrWrongPassword   = errors.New("wrong password")
)

type loginMessages struct {
	notFound      string
	inactive      string
	wrongPassword string
}

var loginFailures = map[models.PrincipalKind]loginMessages{
	models.KindStudent: {
		notFound:      "No account found with this email address. Please check your email or register for a new account.",
		inactive:      "Your account has been deactivated. Please contact support for assistance.",
		wrongPassword: "Incorrect password. Please check your password and try again.",
	},
	models.KindAdmin: {
		notFound:      "Invalid admin email address. Please check your credentials.",
		inactive:      "This admin account has been deactivated. Please contact another administrator.",
		wrongPassword: "Incorrect admin password. Please verify your password and try again.",
	},
}

const (
	msgEmailTaken    = "An account with this email already exists. Please try logging in instead."
	msgLoginInternal = "An error occurred during login. Please try again later."
)

type LoginResult struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	SessionID   string        `json:"-"`
	ExpiresIn   time.Duration `json:"-"`
}

type AuthService struct {
	creds    *CredentialStore
	hasher   *PasswordHasher
	tokens   *TokenService
	sessions *SessionRegistry
	log      *logger.Logger
	now      func() time.Time
}

func NewAuthService(creds *CredentialStore, hasher *PasswordHasher, tokens *TokenService, sessions *SessionRegistry, log *logger.Logger) *AuthService {
	return &AuthService{
		creds:    creds,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Validationf("A valid email address is required.")
	}
	if password == "" {
		return apperr.Validationf("Password is required.")
	}
	return nil
}

func (as *AuthService) RegisterStudent(ctx context.Context, email, password string) (*models.Student, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	hash, err := as.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Could not register the account. Please try again later.", err)
	}
	st, err := as.creds.CreateStudent(ctx, email, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.New(apperr.Conflict, msgEmailTaken, err)
		}
		return nil, apperr.Wrap(apperr.Internal, "Could not register the account. Please try again later.", err)
	}
	as.log.Info("student registered", "student_id", st.ID, "email", st.Email)
	return st, nil
}

func (as *AuthService) CreateAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	hash, err := as.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Could not create the admin account.", err)
	}
	ad, err := as.creds.CreateAdmin(ctx, email, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.New(apperr.Conflict, "An admin with this email already exists.", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "Could not create the admin account.", err)
	}
	return ad, nil
}

// EnsureBootstrapAdmin creates the configured admin when no admin exists yet.
func (as *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	n, err := as.creds.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := as.CreateAdmin(ctx, email, password); err != nil {
		return false, err
	}
	as.log.Info("bootstrap admin created", "email", normalizeEmail(email))
	return true, nil
}

// Login runs lookup, then the active check, then password verification.
// Each failure carries its own message.
func (as *AuthService) Login(ctx context.Context, kind models.PrincipalKind, email, password string) (*LoginResult, error) {
	msgs, ok := loginFailures[kind]
	if !ok {
		return nil, apperr.Validationf("unknown account kind %q", kind)
	}
	email = normalizeEmail(email)
	log := as.log.With("kind", kind, "email", email)

	account, err := as.creds.Lookup(ctx, kind, email)
	if err != nil {
		metrics.ObserveLogin(string(kind), "error")
		return nil, apperr.Wrap(apperr.Internal, msgLoginInternal, err)
	}
	if account == nil {
		metrics.ObserveLogin(string(kind), "not_found")
		log.Warn("login rejected", "reason", "not_found")
		return nil, apperr.New(apperr.Unauthorized, msgs.notFound, ErrAccountNotFound)
	}
	if !account.IsActive {
		metrics.ObserveLogin(string(kind), "inactive")
		log.Warn("login rejected", "reason", "inactive")
		return nil, apperr.New(apperr.Unauthorized, msgs.inactive, ErrAccountInactive)
	}
	if !as.hasher.Verify(password, account.PasswordHash) {
		metrics.ObserveLogin(string(kind), "wrong_password")
		log.Warn("login rejected", "reason", "wrong_password")
		return nil, apperr.New(apperr.Unauthorized, msgs.wrongPassword, ErrWrongPassword)
	}

	token, err := as.tokens.Issue(account.Email, kind)
	if err != nil {
		metrics.ObserveLogin(string(kind), "error")
		return nil, apperr.Wrap(apperr.Internal, msgLoginInternal, err)
	}
	sessionID := NewSessionID(kind, account.Email, as.now())
	as.sessions.Add(sessionID)
	metrics.ObserveLogin(string(kind), "ok")
	log.Info("login succeeded", "account_id", account.ID)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		SessionID:   sessionID,
		ExpiresIn:   as.tokens.TTL(),
	}, nil
}

// Logout drops the session from the registry. The bearer token itself
// stays valid until it expires.
func (as *AuthService) Logout(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	return as.sessions.Remove(sessionID)
}

// Authenticate verifies a bearer token and maps failures to Unauthorized.
func (as *AuthService) Authenticate(token string) (*Claims, error) {
	claims, err := as.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperr.New(apperr.Unauthorized, "Token has expired.", err)
		}
		return nil, apperr.New(apperr.Unauthorized, "Could not validate credentials.", err)
	}
	return claims, nil
}

func (as *AuthService) Sessions() *SessionRegistry { return as.sessions }
