package filelist

import (
	"bkt/internal/models"
)

// Phase is the lifecycle phase of a file list
type Phase int

const (
	Loading Phase = iota // List request in flight
	Ready                // Files hold the last fetched listing
	Failed               // Message holds the user-facing error
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// User-facing failure messages. The cause is only ever logged.
const (
	MsgLoadFailed     = "Failed to load files"
	MsgUploadFailed   = "Failed to upload file"
	MsgDeleteFailed   = "Failed to delete file"
	MsgDownloadFailed = "Failed to download file"
)

// ConfirmDeletePrompt is the question asked before a delete
const ConfirmDeletePrompt = "Are you sure you want to delete this file?"

// State is a snapshot of a file list view
type State struct {
	Bucket  string
	Phase   Phase
	Files   []models.File
	Message string
	Preview string // URL of the image being previewed, empty when closed
}

// clone returns a copy that shares nothing mutable with s
func (s State) clone() State {
	if s.Files != nil {
		files := make([]models.File, len(s.Files))
		copy(files, s.Files)
		s.Files = files
	}
	return s
}
