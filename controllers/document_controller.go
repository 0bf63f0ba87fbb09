package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/services"
)

// POST /api/admin/sections/:id/documents (multipart: title, order_index, file)
func (ctl *Controller) UploadDocument(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	title := c.PostForm("title")
	order := 0
	if raw := c.PostForm("order_index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			bindError(c, "order_index must be an integer")
			return
		}
		order = n
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		bindError(c, "A file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Could not read the uploaded file", err))
		return
	}
	defer file.Close()

	// one byte past the limit is enough to reject oversize files
	limit := ctl.Documents.MaxBytes()
	var r io.Reader = file
	if limit > 0 {
		r = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Could not read the uploaded file", err))
		return
	}

	doc, err := ctl.Documents.Upload(c.Request.Context(), services.UploadInput{
		SectionID:  sectionID,
		Title:      title,
		OrderIndex: order,
		Filename:   fileHeader.Filename,
		Data:       data,
	})
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	if courseID, err := ctl.Courses.CourseIDOfSection(c.Request.Context(), sectionID); err == nil {
		ctl.notify(courseID, "document_added")
	}
	c.JSON(http.StatusCreated, doc)
}

// DELETE /api/admin/documents/:id
func (ctl *Controller) DeleteDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	courseID, err := ctl.Courses.CourseIDOfDocument(ctx, id)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	removed, err := ctl.Courses.DeleteDocument(ctx, id)
	if err != nil {
		ctl.respondError(c, apperr.Wrap(apperr.Internal, "Failed to delete document", err))
		return
	}
	if !removed {
		ctl.respondError(c, apperr.NotFoundf("Document not found"))
		return
	}
	ctl.notify(courseID, "document_deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
