package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// imageExtensions are the extensions that get a thumbnail and a preview action
var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// File represents a file stored in a bucket
type File struct {
	Name string   `json:"name"`           // Unique within the bucket
	Size int64    `json:"size"`           // Size in bytes
	URL  string   `json:"url"`            // Address used for retrieval and previews
	Tags []string `json:"tags,omitempty"` // Optional labels
}

// UnmarshalJSON decodes a file descriptor and rejects descriptors without a size
func (f *File) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string   `json:"name"`
		Size *int64   `json:"size"`
		URL  string   `json:"url"`
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Size == nil {
		return fmt.Errorf("%w: missing size", ErrInvalidFile)
	}

	*f = File{
		Name: raw.Name,
		Size: *raw.Size,
		URL:  raw.URL,
		Tags: raw.Tags,
	}
	return nil
}

// Validate checks the required fields of the descriptor
func (f *File) Validate() error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidFile)
	case f.Size < 0:
		return fmt.Errorf("%w: negative size for %s", ErrInvalidFile, f.Name)
	case f.URL == "":
		return fmt.Errorf("%w: missing url for %s", ErrInvalidFile, f.Name)
	}
	return nil
}

// IsImage reports whether the file name has an image extension
func (f *File) IsImage() bool {
	return IsImageName(f.Name)
}

// IsImageName classifies a file name by the text after its last dot, or the
// whole name when it has no dot
func IsImageName(name string) bool {
	ext := name[strings.LastIndex(name, ".")+1:]
	return imageExtensions[strings.ToLower(ext)]
}

// HasAnyTag reports whether the file carries at least one of the given tags
func (f *File) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range f.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Ack is the acknowledgement returned by mutating calls
type Ack struct {
	Message string `json:"message"`
	Raw     string `json:"-"`
}
