package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bkt/internal/models"
)

// ListBuckets retrieves all storage buckets
func (c *Client) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("buckets"), nil, "")
	if err != nil {
		return nil, err
	}

	var buckets []models.Bucket
	if err := decodeJSON(body, &buckets); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidBucket, err)
	}

	for i := range buckets {
		if err := buckets[i].Validate(); err != nil {
			return nil, err
		}
	}

	return buckets, nil
}

// CreateBucket creates a new storage bucket
func (c *Client) CreateBucket(ctx context.Context, name string) (*models.Bucket, error) {
	jsonData, err := json.Marshal(models.Bucket{Name: name})
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.endpoint("buckets"), bytes.NewBuffer(jsonData), "application/json")
	if err != nil {
		return nil, err
	}

	var bucket models.Bucket
	if err := decodeJSON(body, &bucket); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidBucket, err)
	}
	if err := bucket.Validate(); err != nil {
		return nil, err
	}

	return &bucket, nil
}
