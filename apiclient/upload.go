package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/ariebrainware/psych-practice/model"
)

// UploadImage sends r as the multipart field "image" to /upload/image.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (model.UploadResult, error) {
	var out model.UploadResult

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return out, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return out, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return out, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/image", &buf)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	data, err := c.send(req)
	if err != nil {
		return out, err
	}
	if err := decodeJSON(data, &out); err != nil {
		return out, fmt.Errorf("decode upload response: %w", err)
	}
	return out, nil
}
