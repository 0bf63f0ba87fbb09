package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/services"
)

type createCourseInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Instructor  *string `json:"instructor"`
	Duration    *string `json:"duration"`
}

// GET /api/courses
func (ctl *Controller) ListCourses(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	courses, err := ctl.Courses.ListCourses(c.Request.Context(), services.ListOptions{Skip: skip, Limit: limit})
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /api/courses/:id
func (ctl *Controller) GetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := ctl.Courses.GetActiveCourse(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	if course == nil {
		ctl.respondError(c, apperr.NotFoundf("Course not found"))
		return
	}
	c.JSON(http.StatusOK, course)
}

// GET /api/admin/courses
func (ctl *Controller) AdminListCourses(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))
	courses, err := ctl.Courses.ListCourses(c.Request.Context(), services.ListOptions{
		Skip:            skip,
		Limit:           limit,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /api/admin/courses/:id
func (ctl *Controller) AdminGetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := ctl.Courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	if course == nil {
		ctl.respondError(c, apperr.NotFoundf("Course not found"))
		return
	}
	c.JSON(http.StatusOK, course)
}

// POST /api/admin/courses
func (ctl *Controller) CreateCourse(c *gin.Context) {
	var input createCourseInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Title) == "" {
		bindError(c, "Course title is required")
		return
	}

	course, err := ctl.Courses.CreateCourse(c.Request.Context(), services.NewCourse{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Content:     input.Content,
		Instructor:  input.Instructor,
		Duration:    input.Duration,
	})
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to create course", err))
		return
	}
	ctl.notify(course.ID, "created")
	c.JSON(http.StatusCreated, course)
}

// PUT /api/admin/courses/:id
func (ctl *Controller) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch services.CoursePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, "Invalid course payload")
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		bindError(c, "Course title cannot be empty")
		return
	}

	course, err := ctl.Courses.UpdateCourse(c.Request.Context(), id, patch)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to update course", err))
		return
	}
	if course == nil {
		ctl.respondError(c, apperr.NotFoundf("Course not found"))
		return
	}
	if !patch.Empty() {
		ctl.notify(course.ID, "updated")
	}
	c.JSON(http.StatusOK, course)
}

// DELETE /api/admin/courses/:id archives the course. Its sections stay.
func (ctl *Controller) ArchiveCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	archived, err := ctl.Courses.ArchiveCourse(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to delete course", err))
		return
	}
	if !archived {
		ctl.respondError(c, apperr.NotFoundf("Course not found"))
		return
	}
	ctl.notify(id, "archived")
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}
