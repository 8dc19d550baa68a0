package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	imageTests := []struct {
		name     string
		expected bool
	}{
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"a.png", true},
		{"anim.Gif", true},
		{"pic.webp", true},
		{"notes.txt", false},
		{"archive.png.zip", false},
		{"png", true},
		{"PNG", true},
		{"readme", false},
		{"", false},
		{"trailingdot.", false},
	}

	for _, tt := range imageTests {
		f := File{Name: tt.name}
		assert.Equal(t, tt.expected, f.IsImage(), tt.name)
	}
}

func TestHasAnyTag(t *testing.T) {
	f := File{Name: "a.png", Tags: []string{"vacation", "2023"}}

	assert.True(t, f.HasAnyTag([]string{"vacation"}))
	assert.True(t, f.HasAnyTag([]string{"beach", "2023"}))
	assert.False(t, f.HasAnyTag([]string{"beach"}))
	assert.False(t, f.HasAnyTag(nil))

	untagged := File{Name: "b.png"}
	assert.False(t, untagged.HasAnyTag([]string{"vacation"}))
}

func TestFileDecodeAndValidate(t *testing.T) {
	decodeTests := []struct {
		body        string
		expectedErr error
		expected    File
	}{
		{`{"name":"a.png","size":2048,"url":"http://x/a.png","tags":["vacation"]}`, nil,
			File{Name: "a.png", Size: 2048, URL: "http://x/a.png", Tags: []string{"vacation"}}},
		{`{"name":"b.txt","size":0,"url":"http://x/b.txt"}`, nil,
			File{Name: "b.txt", Size: 0, URL: "http://x/b.txt"}},
		{`{"name":"c.txt","url":"http://x/c.txt"}`, ErrInvalidFile, File{}},
		{`{"size":1,"url":"http://x/c.txt"}`, ErrInvalidFile, File{}},
		{`{"name":"d.txt","size":1}`, ErrInvalidFile, File{}},
		{`{"name":"e.txt","size":-1,"url":"http://x/e.txt"}`, ErrInvalidFile, File{}},
	}

	for _, tt := range decodeTests {
		var f File
		err := json.Unmarshal([]byte(tt.body), &f)
		if err == nil {
			err = f.Validate()
		}

		if tt.expectedErr != nil {
			assert.True(t, errors.Is(err, tt.expectedErr), tt.body)
			continue
		}
		require.NoError(t, err, tt.body)
		assert.Equal(t, tt.expected, f)
	}
}

func TestBucketValidate(t *testing.T) {
	assert.NoError(t, (&Bucket{Name: "photos"}).Validate())
	assert.ErrorIs(t, (&Bucket{Name: " "}).Validate(), ErrInvalidBucket)
}
