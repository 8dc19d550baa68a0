package models

import (
	"fmt"
	"strings"
)

// Bucket represents a storage bucket
type Bucket struct {
	Name string `json:"name"`
}

// Validate checks that the bucket descriptor carries a name
func (b *Bucket) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidBucket)
	}
	return nil
}
