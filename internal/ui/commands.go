package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bkt/internal/filelist"
	"bkt/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages
type bucketsLoadedMsg []models.Bucket
type bucketCreatedMsg models.Bucket
type stateMsg filelist.State
type statusMsg string
type errorMsg string

// actionFailedMsg reports a file action whose user-facing message is already in the store state
type actionFailedMsg struct{}

// Commands
func loadBuckets(ctx context.Context, backend Backend) tea.Cmd {
	return func() tea.Msg {
		buckets, err := backend.ListBuckets(ctx)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load buckets: %v", err))
		}
		return bucketsLoadedMsg(buckets)
	}
}

func createBucket(ctx context.Context, backend Backend, name string) tea.Cmd {
	return func() tea.Msg {
		bucket, err := backend.CreateBucket(ctx, name)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to create bucket: %v", err))
		}
		return bucketCreatedMsg(*bucket)
	}
}

// waitForState blocks until the store publishes a new state
func waitForState(ch <-chan filelist.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

func selectBucket(ctx context.Context, store *filelist.Store, bucket string) tea.Cmd {
	return func() tea.Msg {
		if err := store.SelectBucket(ctx, bucket); err != nil {
			return actionFailedMsg{}
		}
		return nil
	}
}

func reloadFiles(ctx context.Context, store *filelist.Store) tea.Cmd {
	return func() tea.Msg {
		if err := store.Load(ctx); err != nil {
			return actionFailedMsg{}
		}
		return nil
	}
}

func uploadFile(ctx context.Context, store *filelist.Store, path string) tea.Cmd {
	return func() tea.Msg {
		name := filepath.Base(path)
		open := func() (io.ReadCloser, error) { return os.Open(path) }
		if err := store.UploadFrom(ctx, name, open); err != nil {
			return actionFailedMsg{}
		}
		return statusMsg(fmt.Sprintf("Uploaded %s", name))
	}
}

// deleteFile runs after the user answered the confirmation prompt with yes
func deleteFile(ctx context.Context, store *filelist.Store, name string) tea.Cmd {
	confirmed := filelist.ConfirmFunc(func(string) bool { return true })
	return func() tea.Msg {
		if err := store.Delete(ctx, name, confirmed); err != nil {
			return actionFailedMsg{}
		}
		return statusMsg(fmt.Sprintf("Deleted %s", name))
	}
}

func downloadFile(ctx context.Context, store *filelist.Store, name string, saver filelist.Saver) tea.Cmd {
	return func() tea.Msg {
		path, err := store.Download(ctx, name, saver)
		if err != nil {
			return actionFailedMsg{}
		}
		return statusMsg(fmt.Sprintf("Saved %s", path))
	}
}

func openInBrowser(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if err := open(url); err != nil {
			return errorMsg(fmt.Sprintf("Cannot open browser: %v", err))
		}
		return statusMsg("Opened preview in browser")
	}
}
