package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/testutil"
)

func expiredCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	t.Cleanup(cancel)
	return ctx
}

func requireTimeout(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
	ae := apperr.As(err)
	assert.Equal(t, apperr.Timeout, ae.Kind)
	assert.NotEmpty(t, ae.ID)
}

func TestStoreDeadlineMapsToTimeout(t *testing.T) {
	db := testutil.NewDB(t)
	courses := NewCourseStore(db, WithQueryTimeout(time.Second))
	creds := NewCredentialStore(db, WithQueryTimeout(time.Second))

	_, err := courses.CreateCourse(expiredCtx(t), NewCourse{Title: "Late"})
	requireTimeout(t, err)

	_, err = courses.GetCourse(expiredCtx(t), 1)
	requireTimeout(t, err)

	_, err = courses.Enroll(expiredCtx(t), 1, 1)
	requireTimeout(t, err)

	_, err = creds.StudentByEmail(expiredCtx(t), "a@x.com")
	requireTimeout(t, err)

	_, err = creds.CreateStudent(expiredCtx(t), "a@x.com", "hash")
	requireTimeout(t, err)

	// nothing was written
	var n int64
	require.NoError(t, db.Table("courses").Count(&n).Error)
	assert.Zero(t, n)
}

func TestStoreTimeoutSurvivesInternalWrap(t *testing.T) {
	store := NewCourseStore(testutil.NewDB(t))
	_, err := store.CreateCourse(expiredCtx(t), NewCourse{Title: "Late"})

	wrapped := apperr.Wrap(apperr.Internal, "Failed to create course", err)
	assert.Equal(t, apperr.Timeout, wrapped.Kind)
}

func TestWithQueryTimeout(t *testing.T) {
	db := testutil.NewDB(t)
	assert.Equal(t, DefaultQueryTimeout, NewCourseStore(db).timeout)
	assert.Equal(t, DefaultQueryTimeout, NewCredentialStore(db, WithQueryTimeout(0)).timeout)
	assert.Equal(t, 2*time.Second, NewCourseStore(db, WithQueryTimeout(2*time.Second)).timeout)
}
