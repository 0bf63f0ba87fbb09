package services

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount opens an in-memory pdf and returns its page count.
func PDFPageCount(data []byte) (n int, err error) {
	// the reader panics on some malformed trailers
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("read pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return reader.NumPage(), nil
}

// inspectUpload fills in best-effort metadata for known formats. On error
// the fields stay nil and the caller decides whether to log it.
func inspectUpload(ext string, data []byte) (durationSec *float64, pageCount *int, err error) {
	switch ext {
	case ".mp3":
		d, err := MP3Duration(data)
		if err != nil {
			return nil, nil, err
		}
		durationSec = &d
	case ".pdf":
		p, err := PDFPageCount(data)
		if err != nil {
			return nil, nil, err
		}
		pageCount = &p
	}
	return durationSec, pageCount, nil
}
