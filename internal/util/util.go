package util

import (
	"fmt"
	"math"
	"strings"
)

// FormatSize formats a file size in bytes to a human-readable string
func FormatSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	unitIndex := 0
	floatSize := float64(size)

	for floatSize >= 1024 && unitIndex < len(units)-1 {
		floatSize /= 1024
		unitIndex++
	}

	if unitIndex == 0 {
		return fmt.Sprintf("%d %s", size, units[unitIndex])
	}

	return fmt.Sprintf("%.2f %s", floatSize, units[unitIndex])
}

// FormatKB formats a size as whole kilobytes, rounded half up
func FormatKB(size int64) string {
	return fmt.Sprintf("%d KB", int64(math.Floor(float64(size)/1024+0.5)))
}

// SplitTags parses a comma separated tag list, dropping blanks and a leading '#'
func SplitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimPrefix(strings.TrimSpace(part), "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags renders tags as space separated #chips
func FormatTags(tags []string) string {
	chips := make([]string, len(tags))
	for i, tag := range tags {
		chips[i] = "#" + tag
	}
	return strings.Join(chips, " ")
}
