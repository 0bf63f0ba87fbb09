package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/testutil"
)

func TestCourseAccessCanFollow(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	courses := NewCourseStore(db)
	access := NewCourseAccess(courses, NewCredentialStore(db))

	enrolled := testutil.SeedStudent(t, db, "in@x.com", "pw")
	testutil.SeedStudent(t, db, "out@x.com", "pw")
	inactive := testutil.SeedStudent(t, db, "gone@x.com", "pw")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	open := testutil.SeedCourse(t, db, "Open")
	archived := testutil.SeedCourse(t, db, "Archived")
	for _, c := range []uint{open.ID, archived.ID} {
		for _, s := range []uint{enrolled.ID, inactive.ID} {
			ok, err := courses.Enroll(ctx, s, c)
			require.NoError(t, err)
			require.True(t, ok)
		}
	}
	_, err := courses.ArchiveCourse(ctx, archived.ID)
	require.NoError(t, err)

	cases := []struct {
		name   string
		kind   models.PrincipalKind
		email  string
		course uint
		want   bool
	}{
		{"enrolled student", models.KindStudent, "in@x.com", open.ID, true},
		{"not enrolled", models.KindStudent, "out@x.com", open.ID, false},
		{"archived course", models.KindStudent, "in@x.com", archived.ID, false},
		{"deactivated student", models.KindStudent, "gone@x.com", open.ID, false},
		{"unknown student", models.KindStudent, "nobody@x.com", open.ID, false},
		{"missing course", models.KindStudent, "in@x.com", 9999, false},
		{"admin on archived", models.KindAdmin, "root@x.com", archived.ID, true},
		{"admin on missing", models.KindAdmin, "root@x.com", 9999, false},
		{"unknown kind", models.PrincipalKind("guest"), "in@x.com", open.ID, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := access.CanFollow(ctx, tc.kind, tc.email, tc.course)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
