package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"bkt/internal/models"
)

// ListFiles retrieves the files stored in a bucket
func (c *Client) ListFiles(ctx context.Context, bucketName string) ([]models.File, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("files", bucketName), nil, "")
	if err != nil {
		return nil, err
	}

	var files []models.File
	if err := decodeJSON(body, &files); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidFile, err)
	}

	for i := range files {
		if err := files[i].Validate(); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// UploadFile sends the content as multipart form data under the "file" field
func (c *Client) UploadFile(ctx context.Context, bucketName, fileName string, content io.Reader) (*models.File, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", fileName, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart writer: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, c.endpoint("files", bucketName, "upload"), body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var file models.File
	if err := decodeJSON(respBody, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidFile, err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	return &file, nil
}

// DeleteFile removes a file from a bucket
func (c *Client) DeleteFile(ctx context.Context, bucketName, fileName string) (*models.Ack, error) {
	body, err := c.do(ctx, http.MethodDelete, c.endpoint("files", bucketName, fileName), nil, "")
	if err != nil {
		return nil, err
	}

	ack := &models.Ack{Raw: strings.TrimSpace(string(body))}
	if len(body) > 0 {
		// Plain text acknowledgements are kept in Raw only
		_ = json.Unmarshal(body, ack)
	}

	return ack, nil
}

// DownloadFile retrieves the raw content of a file
func (c *Client) DownloadFile(ctx context.Context, bucketName, fileName string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.endpoint("files", bucketName, fileName), nil, "")
}
