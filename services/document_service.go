package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/metrics"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/utils"
)

// BlobStore uploads bytes under path and returns the public URL.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

type UploadInput struct {
	SectionID  uint
	Title      string
	OrderIndex int
	Filename   string
	Data       []byte
}

// DocumentService validates an upload, pushes it to blob storage and
// records the resulting document row.
type DocumentService struct {
	store    *CourseStore
	blobs    BlobStore
	timeout  time.Duration
	maxBytes int64
	log      *logger.Logger
}

func NewDocumentService(store *CourseStore, blobs BlobStore, timeout time.Duration, maxBytes int64, log *logger.Logger) *DocumentService {
	return &DocumentService{store: store, blobs: blobs, timeout: timeout, maxBytes: maxBytes, log: log}
}

func (ds *DocumentService) MaxBytes() int64 { return ds.maxBytes }

// ObjectPath builds the blob key: section_audios/ or section_documents/,
// then a random id and the slugged base name.
func ObjectPath(fileType models.FileType, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("section_%ss/%s-%s%s", fileType, uuid.NewString(), base, ext)
}

func (ds *DocumentService) Upload(ctx context.Context, in UploadInput) (*models.Document, error) {
	fileType, contentType, err := utils.ClassifyUpload(in.Filename)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validationf("Document title is required.")
	}
	if in.OrderIndex < 0 {
		return nil, apperr.Validationf("order_index must be non-negative.")
	}
	if len(in.Data) == 0 {
		return nil, apperr.Validationf("Uploaded file is empty.")
	}
	if ds.maxBytes > 0 && int64(len(in.Data)) > ds.maxBytes {
		return nil, apperr.Validationf("File exceeds the %d byte upload limit.", ds.maxBytes)
	}

	section, err := ds.store.GetSection(ctx, in.SectionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Could not load the section.", err)
	}
	if section == nil {
		return nil, apperr.NotFoundf("Section not found")
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	duration, pages, err := inspectUpload(ext, in.Data)
	if err != nil {
		ds.log.Debug("upload metadata unavailable",
			"section_id", in.SectionID,
			"filename", in.Filename,
			"ext", ext,
			"error", err,
		)
	}

	path := ObjectPath(fileType, in.Filename)
	putCtx, cancel := context.WithTimeout(ctx, ds.timeout)
	defer cancel()
	url, err := ds.blobs.Put(putCtx, path, in.Data, contentType)
	metrics.ObserveBlobUpload(err == nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.Timeout, "File upload timed out. Please try again.", err)
		}
		return nil, apperr.Wrap(apperr.UpstreamFailure, "Failed to upload file to storage.", err)
	}
	ds.log.Info("blob uploaded", "path", path, "bytes", len(in.Data), "content_type", contentType)

	doc, err := ds.store.AddDocument(ctx, NewDocument{
		SectionID:   in.SectionID,
		Title:       strings.TrimSpace(in.Title),
		FileURL:     url,
		FileType:    fileType,
		OrderIndex:  in.OrderIndex,
		DurationSec: duration,
		PageCount:   pages,
	})
	if err != nil {
		ds.log.Error("document row not created after upload", "path", path, "url", url, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to save the document.", err)
	}
	if doc == nil {
		ds.log.Warn("section vanished during upload", "section_id", in.SectionID, "url", url)
		return nil, apperr.NotFoundf("Section not found")
	}
	return doc, nil
}
