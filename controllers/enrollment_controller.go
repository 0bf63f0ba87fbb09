package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/services"
)

type enrollmentInput struct {
	StudentID uint `json:"student_id" binding:"required"`
	CourseID  uint `json:"course_id" binding:"required"`
}

// POST /api/admin/enroll
func (ctl *Controller) Enroll(c *gin.Context) {
	var input enrollmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "student_id and course_id are required")
		return
	}
	ok, err := ctl.Courses.Enroll(c.Request.Context(), input.StudentID, input.CourseID)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to enroll student", err))
		return
	}
	if !ok {
		ctl.respondError(c, apperr.NotFoundf("Student or course not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student enrolled successfully"})
}

// DELETE /api/admin/enroll
func (ctl *Controller) Unenroll(c *gin.Context) {
	var input enrollmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "student_id and course_id are required")
		return
	}
	removed, err := ctl.Courses.Unenroll(c.Request.Context(), input.StudentID, input.CourseID)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to unenroll student", err))
		return
	}
	if !removed {
		ctl.respondError(c, apperr.NotFoundf("Enrollment not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student unenrolled successfully"})
}

// GET /api/admin/courses/:id/students
func (ctl *Controller) CourseStudents(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := ctl.loadCourse(c, id); !ok {
		return
	}
	students, err := ctl.Courses.CourseStudents(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GET /api/admin/courses/:id/students/export
func (ctl *Controller) ExportRoster(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, ok := ctl.loadCourse(c, id)
	if !ok {
		return
	}
	students, err := ctl.Courses.CourseStudents(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	buf, err := services.BuildRosterWorkbook(course, students)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to build roster", err))
		return
	}

	name := slug.Make(course.Title)
	if name == "" {
		name = "course"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-roster.xlsx"`, name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
