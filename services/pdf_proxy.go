package services

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vnkhanh/sloka-backend/apperr"
	"github.com/vnkhanh/sloka-backend/logger"
)

type FetchedPDF struct {
	Data      []byte
	PageCount int
}

// PDFFetcher downloads remote pdfs so browsers can render them inline
// without hitting CORS on the storage host.
type PDFFetcher struct {
	client *resty.Client
	log    *logger.Logger
}

func NewPDFFetcher(timeout time.Duration, log *logger.Logger) *PDFFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/pdf").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &PDFFetcher{client: client, log: log}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (f *PDFFetcher) Fetch(ctx context.Context, rawURL string) (*FetchedPDF, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.Validationf("A valid http(s) PDF url is required.")
	}

	resp, err := f.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		if isTimeout(err) {
			e := apperr.Wrap(apperr.Timeout, "PDF request timeout. Please try again.", err)
			f.log.Warn("pdf fetch timed out", "url", rawURL, "error_id", e.ID)
			return nil, e
		}
		e := apperr.Wrap(apperr.UpstreamFailure, "Network error while fetching PDF.", err)
		f.log.Warn("pdf fetch failed", "url", rawURL, "error_id", e.ID, "error", err)
		return nil, e
	}
	if resp.IsError() {
		e := apperr.New(apperr.UpstreamFailure, "Failed to fetch PDF - HTTP "+resp.Status(), nil)
		f.log.Warn("pdf fetch rejected upstream", "url", rawURL, "status", resp.StatusCode(), "error_id", e.ID)
		return nil, e
	}

	data := resp.Body()
	pages, err := PDFPageCount(data)
	if err != nil {
		f.log.Debug("pdf page count unavailable", "url", rawURL, "error", err)
		pages = 0
	}
	return &FetchedPDF{Data: data, PageCount: pages}, nil
}
