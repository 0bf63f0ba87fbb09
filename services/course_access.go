package services

import (
	"context"

	"github.com/vnkhanh/sloka-backend/models"
)

// CourseAccess decides who may follow a course's live change feed. Admins
// see every course, archived ones included. Students see only active
// courses they are enrolled in, and only while their account is active.
type CourseAccess struct {
	courses *CourseStore
	creds   *CredentialStore
}

func NewCourseAccess(courses *CourseStore, creds *CredentialStore) *CourseAccess {
	return &CourseAccess{courses: courses, creds: creds}
}

// CanFollow returns false with a nil error when the principal may not
// follow the course or the course does not exist for them.
func (a *CourseAccess) CanFollow(ctx context.Context, kind models.PrincipalKind, email string, courseID uint) (bool, error) {
	switch kind {
	case models.KindAdmin:
		course, err := a.courses.GetCourse(ctx, courseID)
		return course != nil, err
	case models.KindStudent:
		course, err := a.courses.GetActiveCourse(ctx, courseID)
		if err != nil || course == nil {
			return false, err
		}
		student, err := a.creds.StudentByEmail(ctx, email)
		if err != nil || student == nil || !student.IsActive {
			return false, err
		}
		return a.courses.IsEnrolled(ctx, student.ID, courseID)
	default:
		return false, nil
	}
}
