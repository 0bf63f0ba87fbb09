// Package testutil wires an isolated in-memory sqlite database for tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnkhanh/sloka-backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a fresh shared-cache in-memory database with foreign keys
// enforced and the full schema migrated. It is closed when t finishes.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:sloka_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.Student{},
		&models.Admin{},
		&models.Course{},
		&models.Section{},
		&models.Document{},
		&models.Enrollment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func hash(t testing.TB, password string) string {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(digest)
}

func SeedStudent(t testing.TB, db *gorm.DB, email, password string) *models.Student {
	t.Helper()
	st := &models.Student{Account: models.Account{Email: email, PasswordHash: hash(t, password), IsActive: true}}
	if err := db.WithContext(context.Background()).Create(st).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return st
}

func SeedAdmin(t testing.TB, db *gorm.DB, email, password string) *models.Admin {
	t.Helper()
	ad := &models.Admin{Account: models.Account{Email: email, PasswordHash: hash(t, password), IsActive: true}}
	if err := db.Create(ad).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return ad
}

func SeedCourse(t testing.TB, db *gorm.DB, title string) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, IsActive: true}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedSection inserts a section with an explicit creation time so tests can
// pin tie-breaking on order_index.
func SeedSection(t testing.TB, db *gorm.DB, courseID uint, title string, order int, createdAt time.Time) *models.Section {
	t.Helper()
	s := &models.Section{CourseID: courseID, Title: title, OrderIndex: order, CreatedAt: createdAt}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedDocument(t testing.TB, db *gorm.DB, sectionID uint, title string, order int, createdAt time.Time) *models.Document {
	t.Helper()
	d := &models.Document{
		SectionID:  sectionID,
		Title:      title,
		FileURL:    "https://blob.example/" + title,
		FileType:   models.FileTypeDocument,
		OrderIndex: order,
		CreatedAt:  createdAt,
	}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return d
}
