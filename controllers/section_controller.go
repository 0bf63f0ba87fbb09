package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/services"
)

type createSectionInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
}

// POST /api/admin/courses/:id/sections
func (ctl *Controller) CreateSection(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input createSectionInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Title) == "" {
		bindError(c, "Section title is required")
		return
	}
	order := 0
	if input.OrderIndex != nil {
		order = *input.OrderIndex
	}
	if order < 0 {
		bindError(c, "order_index must be non-negative")
		return
	}

	section, err := ctl.Courses.CreateSection(c.Request.Context(), services.NewSection{
		CourseID:    courseID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		OrderIndex:  order,
	})
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to create section", err))
		return
	}
	if section == nil {
		ctl.respondError(c, apperr.NotFoundf("Course not found"))
		return
	}
	ctl.notify(courseID, "section_created")
	c.JSON(http.StatusCreated, section)
}

// GET /api/admin/courses/:id/sections
func (ctl *Controller) ListSections(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := ctl.Courses.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	if course == nil {
		ctl.respondError(c, apperr.NotFoundf("Course not found"))
		return
	}
	c.JSON(http.StatusOK, course.Sections)
}

// PUT /api/admin/sections/:id
func (ctl *Controller) UpdateSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch services.SectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, "Invalid section payload")
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		bindError(c, "Section title cannot be empty")
		return
	}
	if patch.OrderIndex != nil && *patch.OrderIndex < 0 {
		bindError(c, "order_index must be non-negative")
		return
	}

	section, err := ctl.Courses.UpdateSection(c.Request.Context(), id, patch)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to update section", err))
		return
	}
	if section == nil {
		ctl.respondError(c, apperr.NotFoundf("Section not found"))
		return
	}
	if !patch.Empty() {
		ctl.notify(section.CourseID, "section_updated")
	}
	c.JSON(http.StatusOK, section)
}

// DELETE /api/admin/sections/:id removes the section and its documents.
func (ctl *Controller) PurgeSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	courseID, err := ctl.Courses.CourseIDOfSection(ctx, id)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	removed, err := ctl.Courses.PurgeSection(ctx, id)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to delete section", err))
		return
	}
	if !removed {
		ctl.respondError(c, apperr.NotFoundf("Section not found"))
		return
	}
	ctl.notify(courseID, "section_deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Section deleted successfully"})
}
