package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vnkhanh/sloka-backend/models"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

// CredentialStore persists student and admin accounts. Lookups return a nil
// record with a nil error when nothing matches.
type CredentialStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewCredentialStore(db *gorm.DB, opts ...StoreOption) *CredentialStore {
	o := applyStoreOptions(opts)
	return &CredentialStore{db: db, timeout: o.timeout}
}

func (s *CredentialStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithTimeout(ctx, DefaultQueryTimeout)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *CredentialStore) CreateStudent(ctx context.Context, email, passwordHash string) (*models.Student, error) {
	st := &models.Student{Account: models.Account{Email: email, PasswordHash: passwordHash, IsActive: true}}
	if err := s.createAccount(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *CredentialStore) CreateAdmin(ctx context.Context, email, passwordHash string) (*models.Admin, error) {
	ad := &models.Admin{Account: models.Account{Email: email, PasswordHash: passwordHash, IsActive: true}}
	if err := s.createAccount(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *CredentialStore) createAccount(ctx context.Context, record any) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var email string
	switch r := record.(type) {
	case *models.Student:
		email = r.Email
	case *models.Admin:
		email = r.Email
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(record).Where("email = ?", email).Count(&n).Error; err != nil {
			return storeErr("check email", err)
		}
		if n > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return storeErr("insert account", err)
		}
		return nil
	})
	if errors.Is(err, ErrEmailTaken) {
		return err
	}
	return storeErr("create account", err)
}

func (s *CredentialStore) StudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var st models.Student
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr("find student", err)
	}
	return &st, nil
}

func (s *CredentialStore) StudentByID(ctx context.Context, id uint) (*models.Student, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var st models.Student
	if err := s.db.WithContext(ctx).First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr("find student", err)
	}
	return &st, nil
}

func (s *CredentialStore) AdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var ad models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&ad).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr("find admin", err)
	}
	return &ad, nil
}

// Lookup returns the account of the given kind, or nil when absent.
func (s *CredentialStore) Lookup(ctx context.Context, kind models.PrincipalKind, email string) (*models.Account, error) {
	switch kind {
	case models.KindStudent:
		st, err := s.StudentByEmail(ctx, email)
		if err != nil || st == nil {
			return nil, err
		}
		return &st.Account, nil
	case models.KindAdmin:
		ad, err := s.AdminByEmail(ctx, email)
		if err != nil || ad == nil {
			return nil, err
		}
		return &ad.Account, nil
	default:
		return nil, fmt.Errorf("unknown principal kind %q", kind)
	}
}

func (s *CredentialStore) ListStudents(ctx context.Context, skip, limit int) ([]models.Student, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	students := []models.Student{}
	err := s.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&students).Error
	if err != nil {
		return nil, storeErr("list students", err)
	}
	return students, nil
}

func (s *CredentialStore) CountAdmins(ctx context.Context) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&n).Error; err != nil {
		return 0, storeErr("count admins", err)
	}
	return n, nil
}
