package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "2.00 KB", FormatSize(2048))
	assert.Equal(t, "1.50 MB", FormatSize(1572864))
}

func TestFormatKB(t *testing.T) {
	sizeTests := []struct {
		size     int64
		expected string
	}{
		{0, "0 KB"},
		{511, "0 KB"},
		{512, "1 KB"},
		{2048, "2 KB"},
		{1536, "2 KB"},
	}

	for _, tt := range sizeTests {
		assert.Equal(t, tt.expected, FormatKB(tt.size))
	}
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"vacation", "beach"}, SplitTags(" vacation, #beach ,,"))
	assert.Nil(t, SplitTags(""))
	assert.Equal(t, "#a #b", FormatTags([]string{"a", "b"}))
}
