package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const vercelBlobAPIVersion = "7"

type vercelPutResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

type vercelErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// VercelBlobStore talks to the Vercel Blob REST API with a read-write token.
type VercelBlobStore struct {
	client *resty.Client
}

func NewVercelBlobStore(baseURL, token string, timeout time.Duration) *VercelBlobStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("x-api-version", vercelBlobAPIVersion)
	return &VercelBlobStore{client: client}
}

func (v *VercelBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	var out vercelPutResponse
	var apiErr vercelErrorResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetHeader("x-content-type", contentType).
		SetHeader("x-add-random-suffix", "0").
		SetBody(data).
		SetResult(&out).
		SetError(&apiErr).
		Put("/" + path)
	if err != nil {
		return "", fmt.Errorf("vercel blob put %s: %w", path, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("vercel blob put %s: status %d: %s", path, resp.StatusCode(), apiErr.Error.Message)
	}
	if out.URL == "" {
		return "", fmt.Errorf("vercel blob put %s: response carried no url", path)
	}
	return out.URL, nil
}
