package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/middleware"
	"github.com/vnkhanh/sloka-backend/models"
)

func (ctl *Controller) loadCourse(c *gin.Context, id uint) (*models.Course, bool) {
	course, err := ctl.Courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err)
		return nil, false
	}
	if course == nil {
		ctl.respondError(c, apperr.NotFoundf("Course not found"))
		return nil, false
	}
	return course, true
}

// currentStudent resolves the token's email to an active student row.
func (ctl *Controller) currentStudent(c *gin.Context) (*models.Student, bool) {
	email, _, ok := middleware.Principal(c)
	if !ok {
		ctl.respondError(c, apperr.Unauthorizedf("Could not validate credentials"))
		return nil, false
	}
	student, err := ctl.Creds.StudentByEmail(c.Request.Context(), email)
	if err != nil {
		ctl.respondError(c, err)
		return nil, false
	}
	if student == nil {
		ctl.respondError(c, apperr.Unauthorizedf("Student account not found"))
		return nil, false
	}
	if !student.IsActive {
		ctl.respondError(c, apperr.Forbiddenf("Your account has been deactivated. Please contact support for assistance."))
		return nil, false
	}
	return student, true
}

// GET /api/student/courses
func (ctl *Controller) StudentCourses(c *gin.Context) {
	student, ok := ctl.currentStudent(c)
	if !ok {
		return
	}
	courses, err := ctl.Courses.StudentCourses(c.Request.Context(), student.ID)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /api/student/profile
func (ctl *Controller) StudentProfile(c *gin.Context) {
	student, ok := ctl.currentStudent(c)
	if !ok {
		return
	}
	courses, err := ctl.Courses.StudentCourses(c.Request.Context(), student.ID)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         student.ID,
		"email":      student.Email,
		"created_at": student.CreatedAt,
		"is_active":  student.IsActive,
		"courses":    courses,
	})
}

// GET /api/admin/students
func (ctl *Controller) ListStudents(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	students, err := ctl.Creds.ListStudents(c.Request.Context(), skip, limit)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}
