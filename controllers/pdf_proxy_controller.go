package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/apperr"
)

// GET /api/pdf-proxy?url=
func (ctl *Controller) PDFProxy(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		ctl.respondError(c, apperr.Validationf("url query parameter is required"))
		return
	}
	pdf, err := ctl.PDFs.Fetch(c.Request.Context(), raw)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="document.pdf"`)
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("Access-Control-Expose-Headers", "X-PDF-Page-Count")
	if pdf.PageCount > 0 {
		c.Header("X-PDF-Page-Count", strconv.Itoa(pdf.PageCount))
	}
	c.Data(http.StatusOK, "application/pdf", pdf.Data)
}
