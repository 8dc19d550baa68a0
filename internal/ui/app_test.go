package ui

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkt/internal/api"
	"bkt/internal/apitest"
	"bkt/internal/filelist"
)

type testEnv struct {
	srv         *apitest.Server
	downloadDir string
	opened      []string
}

func newTestModel(t *testing.T, bucket string) (Model, *testEnv) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := apitest.NewServer("photos", "docs")
	t.Cleanup(srv.Close)
	srv.Put("photos", "a.png", make([]byte, 2048), "vacation")
	srv.Put("photos", "notes.txt", []byte("hello"))

	env := &testEnv{srv: srv, downloadDir: t.TempDir()}
	m := NewModel(context.Background(), Options{
		Backend:     api.NewClient(srv.URL, api.WithLogger(log)),
		Bucket:      bucket,
		DownloadDir: env.downloadDir,
		Log:         log,
		BlobStore:   filelist.NewTempBlobStore(t.TempDir()),
		OpenURL: func(url string) error {
			env.opened = append(env.opened, url)
			return nil
		},
	})

	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, env
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = update(m, key(string(r)))
	}
	return m
}

// drainState applies the newest state published by the store
func drainState(m Model) Model {
	m, _ = update(m, waitForState(m.states)())
	return m
}

func loadFiles(t *testing.T, m Model) Model {
	t.Helper()
	assert.Nil(t, reloadFiles(m.ctx, m.store)())
	return drainState(m)
}

func TestFileScreenShowsFiles(t *testing.T) {
	m, _ := newTestModel(t, "photos")
	assert.Equal(t, filelist.Loading, m.state.Phase)

	m = loadFiles(t, m)
	require.Equal(t, filelist.Ready, m.state.Phase)

	view := m.View()
	assert.Contains(t, view, "bkt - photos")
	assert.Contains(t, view, "a.png")
	assert.Contains(t, view, "notes.txt")
	assert.Contains(t, view, "2 KB")
	assert.Contains(t, view, "#vacation")
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t, "photos")
	m = loadFiles(t, m)

	m, _ = update(m, key("/"))
	assert.Equal(t, modeSearch, m.mode)
	m = typeText(m, "NOTE")
	assert.Equal(t, []string{"notes.txt"}, filelist.Names(m.files.Files))

	m, _ = update(m, key("enter"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Contains(t, m.View(), "Search: NOTE")

	m, _ = update(m, key("c"))
	assert.Len(t, m.files.Files, 2)
}

func TestTagFilter(t *testing.T) {
	m, _ := newTestModel(t, "photos")
	m = loadFiles(t, m)

	m, _ = update(m, key("t"))
	m = typeText(m, "vacation")
	m, _ = update(m, key("enter"))
	assert.Equal(t, []string{"vacation"}, m.tags)
	assert.Equal(t, []string{"a.png"}, filelist.Names(m.files.Files))

	m, _ = update(m, key("t"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = typeText(m, "beach")
	m, _ = update(m, key("enter"))
	assert.Empty(t, m.files.Files)
	assert.Contains(t, m.View(), "No files match")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, env := newTestModel(t, "photos")
	m = loadFiles(t, m)

	m, _ = update(m, key("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), filelist.ConfirmDeletePrompt)

	m, cmd := update(m, key("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Delete cancelled", m.StatusMessage)
	requests := env.srv.Requests()

	m, _ = update(m, key("d"))
	m, cmd = update(m, key("y"))
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	assert.Equal(t, "Deleted a.png", m.StatusMessage)
	assert.Greater(t, env.srv.Requests(), requests)

	m = drainState(m)
	assert.Equal(t, []string{"notes.txt"}, filelist.Names(m.state.Files))
}

func TestPreview(t *testing.T) {
	m, env := newTestModel(t, "photos")
	m = loadFiles(t, m)

	m, _ = update(m, key("p"))
	require.NotEmpty(t, m.state.Preview)
	assert.Contains(t, m.View(), m.state.Preview)

	_, cmd := update(m, key("o"))
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg("Opened preview in browser"), cmd())
	assert.Equal(t, []string{m.state.Preview}, env.opened)

	m, _ = update(m, key("esc"))
	assert.Empty(t, m.state.Preview)
	assert.Empty(t, m.store.Snapshot().Preview)

	m, _ = update(m, key("down"))
	m, _ = update(m, key("p"))
	assert.Empty(t, m.state.Preview)
	assert.Equal(t, "Preview is only available for images", m.StatusMessage)
}

func TestDownload(t *testing.T) {
	m, env := newTestModel(t, "photos")
	m = loadFiles(t, m)
	m, _ = update(m, key("down"))

	m, cmd := update(m, key("s"))
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())

	saved := filepath.Join(env.downloadDir, "notes.txt")
	assert.Equal(t, "Saved "+saved, m.StatusMessage)
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLoadFailureShowsStaticMessage(t *testing.T) {
	m, env := newTestModel(t, "photos")
	env.srv.FailWith(http.StatusInternalServerError)

	m, _ = update(m, reloadFiles(m.ctx, m.store)())
	m = drainState(m)

	view := m.View()
	assert.Equal(t, filelist.Failed, m.state.Phase)
	assert.Contains(t, view, filelist.MsgLoadFailed)
	assert.NotContains(t, view, "500")
}

func TestBucketScreen(t *testing.T) {
	m, _ := newTestModel(t, "")
	assert.Equal(t, screenBuckets, m.screen)

	m, _ = update(m, loadBuckets(m.ctx, m.backend)())
	assert.Contains(t, m.View(), "photos")
	assert.Contains(t, m.View(), "docs")

	m, _ = update(m, key("n"))
	assert.Equal(t, modeCreateBucket, m.mode)
	m = typeText(m, "music")
	m, cmd := update(m, key("enter"))
	require.NotNil(t, cmd)
	m, cmd = update(m, cmd())
	assert.Equal(t, "Created bucket music", m.StatusMessage)
	m, _ = update(m, cmd())
	assert.Contains(t, m.View(), "music")

	m, cmd = update(m, key("enter"))
	assert.Equal(t, screenFiles, m.screen)
	assert.Equal(t, "docs", m.state.Bucket)
	assert.Nil(t, cmd())

	m = drainState(m)
	assert.Equal(t, filelist.Ready, m.state.Phase)
	assert.Empty(t, m.state.Files)

	m, _ = update(m, key("b"))
	assert.Equal(t, screenBuckets, m.screen)
}

// runAll executes cmd and every command nested in a batch, collecting the messages
func runAll(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runAll(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestUploadThroughPicker(t *testing.T) {
	m, env := newTestModel(t, "photos")
	m = loadFiles(t, m)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.txt"), []byte("quarterly"), 0644))

	m, _ = update(m, key("u"))
	require.Equal(t, modeUpload, m.mode)
	m.picker.CurrentDirectory = dir
	for _, msg := range runAll(m.picker.Init()) {
		m, _ = update(m, msg)
	}

	m, cmd := update(m, key("enter"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Uploading "+filepath.Join(dir, "report.txt")+"...", m.StatusMessage)

	for _, msg := range runAll(cmd) {
		m, _ = update(m, msg)
	}
	assert.Equal(t, "Uploaded report.txt", m.StatusMessage)

	m = drainState(m)
	assert.Equal(t, filelist.Ready, m.state.Phase)
	assert.Contains(t, filelist.Names(m.state.Files), "report.txt")
	assert.Contains(t, m.View(), "report.txt")
	assert.Positive(t, env.srv.Requests())
}

func TestUploadCancel(t *testing.T) {
	m, _ := newTestModel(t, "photos")
	m = loadFiles(t, m)

	m, _ = update(m, key("u"))
	m, _ = update(m, key("esc"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Upload cancelled", m.StatusMessage)
}

func TestUploadUnreadableFileFailsLikeOtherActions(t *testing.T) {
	m, env := newTestModel(t, "photos")
	m = loadFiles(t, m)
	requests := env.srv.Requests()

	msg := uploadFile(m.ctx, m.store, filepath.Join(t.TempDir(), "absent.txt"))()
	assert.Equal(t, actionFailedMsg{}, msg)
	m, _ = update(m, msg)

	m = drainState(m)
	assert.Equal(t, filelist.Failed, m.state.Phase)
	assert.Empty(t, m.ErrorMessage)
	assert.Contains(t, m.View(), filelist.MsgUploadFailed)
	assert.Equal(t, []string{"a.png", "notes.txt"}, filelist.Names(m.state.Files))
	assert.Equal(t, requests, env.srv.Requests())
}
