package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBlobs struct {
	calls []string
	types []string
	err   error
	delay time.Duration
}

func (f *fakeBlobs) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	f.calls = append(f.calls, path)
	f.types = append(f.types, contentType)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return "https://blob.example/" + path, nil
}

func newTestDocuments(t *testing.T, blobs BlobStore) (*DocumentService, *models.Section) {
	t.Helper()
	db := testutil.NewDB(t)
	course := testutil.SeedCourse(t, db, "Uploads")
	section := testutil.SeedSection(t, db, course.ID, "Ch1", 0, time.Now())
	return NewDocumentService(NewCourseStore(db), blobs, time.Second, 1024, logger.Nop()), section
}

func TestUploadStoresBlobURL(t *testing.T) {
	blobs := &fakeBlobs{}
	ds, section := newTestDocuments(t, blobs)

	doc, err := ds.Upload(context.Background(), UploadInput{
		SectionID: section.ID,
		Title:     "Notes",
		Filename:  "Week 1 Notes.pdf",
		Data:      []byte("%PDF-1.4 not really"),
	})
	require.NoError(t, err)
	require.Len(t, blobs.calls, 1)
	assert.True(t, strings.HasPrefix(blobs.calls[0], "section_documents/"))
	assert.True(t, strings.HasSuffix(blobs.calls[0], "-week-1-notes.pdf"))
	assert.Equal(t, "application/pdf", blobs.types[0])
	assert.Equal(t, "https://blob.example/"+blobs.calls[0], doc.FileURL)
	assert.Equal(t, models.FileTypeDocument, doc.FileType)
	assert.Nil(t, doc.PageCount)
}

func TestUploadRejectsDisallowedExtensionBeforeBlobCall(t *testing.T) {
	blobs := &fakeBlobs{}
	ds, section := newTestDocuments(t, blobs)

	_, err := ds.Upload(context.Background(), UploadInput{
		SectionID: section.ID,
		Title:     "Totally safe",
		Filename:  "virus.exe",
		Data:      []byte("MZ"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ValidationFailed, apperr.As(err).Kind)
	assert.Empty(t, blobs.calls)
}

func TestUploadValidation(t *testing.T) {
	blobs := &fakeBlobs{}
	ds, section := newTestDocuments(t, blobs)

	cases := map[string]UploadInput{
		"too large": {SectionID: section.ID, Title: "Big", Filename: "big.mp3", Data: make([]byte, 2048)},
		"empty":     {SectionID: section.ID, Title: "Empty", Filename: "e.mp3"},
		"no title":  {SectionID: section.ID, Filename: "a.mp3", Data: []byte("x")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ds.Upload(context.Background(), in)
			assert.Equal(t, apperr.ValidationFailed, apperr.As(err).Kind)
		})
	}

	_, err := ds.Upload(context.Background(), UploadInput{SectionID: 999, Title: "x", Filename: "a.mp3", Data: []byte("x")})
	assert.Equal(t, apperr.NotFound, apperr.As(err).Kind)
	assert.Empty(t, blobs.calls)
}

func TestUploadBlobFailures(t *testing.T) {
	ds, section := newTestDocuments(t, &fakeBlobs{err: errors.New("bucket gone")})
	_, err := ds.Upload(context.Background(), UploadInput{SectionID: section.ID, Title: "a", Filename: "a.wav", Data: []byte("x")})
	ae := apperr.As(err)
	assert.Equal(t, apperr.UpstreamFailure, ae.Kind)
	assert.NotEmpty(t, ae.ID)

	slow := &fakeBlobs{delay: time.Minute}
	ds, section = newTestDocuments(t, slow)
	ds.timeout = 20 * time.Millisecond
	_, err = ds.Upload(context.Background(), UploadInput{SectionID: section.ID, Title: "a", Filename: "a.wav", Data: []byte("x")})
	assert.Equal(t, apperr.Timeout, apperr.As(err).Kind)
}

func TestObjectPath(t *testing.T) {
	p := ObjectPath(models.FileTypeAudio, "My Lecture.MP3")
	assert.True(t, strings.HasPrefix(p, "section_audios/"))
	assert.True(t, strings.HasSuffix(p, "-my-lecture.mp3"))

	p = ObjectPath(models.FileTypeDocument, ".pdf")
	assert.True(t, strings.HasSuffix(p, "-file.pdf"))
}

func TestMediaInspectionRejectsGarbage(t *testing.T) {
	_, err := MP3Duration([]byte("definitely not audio"))
	assert.Error(t, err)
	_, err = PDFPageCount([]byte("definitely not a pdf"))
	assert.Error(t, err)

	d, p, err := inspectUpload(".mp3", []byte("junk"))
	assert.Error(t, err)
	assert.Nil(t, d)
	assert.Nil(t, p)

	d, p, err = inspectUpload(".docx", []byte("anything"))
	assert.NoError(t, err)
	assert.Nil(t, d)
	assert.Nil(t, p)
}

func TestUploadLogsUninspectableMedia(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	db := testutil.NewDB(t)
	course := testutil.SeedCourse(t, db, "Uploads")
	section := testutil.SeedSection(t, db, course.ID, "Ch1", 0, time.Now())
	ds := NewDocumentService(NewCourseStore(db), &fakeBlobs{}, time.Second, 1024, log)

	doc, err := ds.Upload(context.Background(), UploadInput{
		SectionID: section.ID,
		Title:     "Broken",
		Filename:  "broken.pdf",
		Data:      []byte("not a pdf at all"),
	})
	require.NoError(t, err)
	assert.Nil(t, doc.PageCount)

	entries := logs.FilterMessage("upload metadata unavailable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, ".pdf", fields["ext"])
	assert.NotEmpty(t, fields["error"])
}
