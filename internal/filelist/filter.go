package filelist

import (
	"strings"

	"bkt/internal/models"
)

// Filter returns the files whose name contains search (case-insensitive) and
// that carry at least one of tags. An empty tag list matches every file.
func Filter(files []models.File, search string, tags []string) []models.File {
	needle := strings.ToLower(search)

	filtered := make([]models.File, 0, len(files))
	for _, f := range files {
		if !strings.Contains(strings.ToLower(f.Name), needle) {
			continue
		}
		if len(tags) > 0 && !f.HasAnyTag(tags) {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}

// Names returns the names of files in order
func Names(files []models.File) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
