package utils

import (
	"path/filepath"
	"strings"

	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/models"
)

var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

var documentExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// ClassifyUpload maps a declared filename to its document kind and content
// type. Extensions outside the audio and document sets are rejected.
func ClassifyUpload(filename string) (models.FileType, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := audioExtensions[ext]; ok {
		return models.FileTypeAudio, ct, nil
	}
	if ct, ok := documentExtensions[ext]; ok {
		return models.FileTypeDocument, ct, nil
	}
	if ext == "" {
		return "", "", apperr.Validationf("File %q has no extension.", filename)
	}
	return "", "", apperr.Validationf(
		"File type %s is not allowed. Allowed audio: mp3, wav, ogg, m4a, aac, flac. Allowed documents: pdf, doc, docx, txt, md, ppt, pptx.",
		ext)
}
