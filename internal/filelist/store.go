// Package filelist holds the state of a single bucket's file listing and
// mediates the user actions performed on it.
package filelist

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"bkt/internal/models"
)

// FileService is the part of the storage API a file list needs
type FileService interface {
	ListFiles(ctx context.Context, bucketName string) ([]models.File, error)
	UploadFile(ctx context.Context, bucketName, fileName string, content io.Reader) (*models.File, error)
	DeleteFile(ctx context.Context, bucketName, fileName string) (*models.Ack, error)
	DownloadFile(ctx context.Context, bucketName, fileName string) ([]byte, error)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Option configures a Store
type Option func(*Store)

// WithBlobStore sets where downloads are staged
func WithBlobStore(b BlobStore) Option {
	return func(s *Store) {
		s.blobs = b
	}
}

// WithLogger sets the logger that records failure causes
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// Store is the state container of a file list view. Every change is
// published to subscribers in the order it happened.
type Store struct {
	svc   FileService
	blobs BlobStore
	log   logrus.FieldLogger

	// notifyMu serialises change+delivery so subscribers see changes in order
	notifyMu sync.Mutex

	mu    sync.Mutex
	state State
	// generation counts loads, epoch counts bucket switches
	generation uint64
	epoch      uint64
	subs       map[int]func(State)
	nextSub    int
}

// New creates a store for bucket. It starts in Loading; call Load to fetch.
func New(svc FileService, bucket string, opts ...Option) *Store {
	s := &Store{
		svc:   svc,
		log:   logrus.StandardLogger(),
		state: State{Bucket: bucket, Phase: Loading},
		subs:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.blobs == nil {
		s.blobs = NewTempBlobStore("")
	}
	return s
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn for state changes and returns a function that removes it.
// fn runs synchronously and must not call mutating Store methods.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies fn to the state and notifies subscribers when fn reports a change
func (s *Store) update(fn func(st *State) bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot.clone())
	}
}

// scope identifies the bucket an action started on
type scope struct {
	bucket string
	epoch  uint64
}

func (s *Store) currentScope() scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scope{bucket: s.state.Bucket, epoch: s.epoch}
}

// fail logs the cause against the action's bucket and moves to Failed with a
// static message, unless the user has switched buckets since the action began
func (s *Store) fail(sc scope, message, fileName string, cause error) {
	entry := s.log.WithError(cause).WithField("bucket", sc.bucket)
	if fileName != "" {
		entry = entry.WithField("file", fileName)
	}
	entry.Error(message)

	s.update(func(st *State) bool {
		if s.epoch != sc.epoch {
			return false
		}
		st.Phase = Failed
		st.Message = message
		return true
	})
}

// Load fetches the bucket's files. Results of a load superseded by a later
// Load or SelectBucket are discarded.
func (s *Store) Load(ctx context.Context) error {
	return s.load(ctx, nil)
}

// SelectBucket switches to another bucket and loads it
func (s *Store) SelectBucket(ctx context.Context, bucket string) error {
	return s.load(ctx, func(st *State) {
		st.Bucket = bucket
		st.Files = nil
		st.Preview = ""
		s.epoch++
	})
}

// load publishes Loading, with switchBucket applied first when set, then fetches
func (s *Store) load(ctx context.Context, switchBucket func(st *State)) error {
	var (
		generation uint64
		bucket     string
	)
	s.update(func(st *State) bool {
		if switchBucket != nil {
			switchBucket(st)
		}
		s.generation++
		generation = s.generation
		bucket = st.Bucket
		st.Phase = Loading
		st.Message = ""
		return true
	})

	files, err := s.svc.ListFiles(ctx, bucket)

	stale := false
	s.update(func(st *State) bool {
		if generation != s.generation {
			stale = true
			return false
		}
		if err != nil {
			st.Phase = Failed
			st.Message = MsgLoadFailed
			return true
		}
		st.Phase = Ready
		st.Files = files
		return true
	})

	if stale {
		s.log.WithField("bucket", bucket).Debug("discarding superseded file listing")
		return nil
	}
	if err != nil {
		s.log.WithError(err).WithField("bucket", bucket).Error(MsgLoadFailed)
		return err
	}
	return nil
}

// reload refreshes the listing after a successful action, unless the user
// has moved to another bucket, which SelectBucket already loaded
func (s *Store) reload(ctx context.Context, sc scope) error {
	if s.currentScope().epoch != sc.epoch {
		return nil
	}
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("reloading files: %w", err)
	}
	return nil
}

// Upload sends content as fileName and reloads the listing on success
func (s *Store) Upload(ctx context.Context, fileName string, content io.Reader) error {
	if fileName == "" || content == nil {
		return models.ErrNoFileSelected
	}

	sc := s.currentScope()
	if _, err := s.svc.UploadFile(ctx, sc.bucket, fileName, content); err != nil {
		s.fail(sc, MsgUploadFailed, fileName, err)
		return err
	}
	return s.reload(ctx, sc)
}

// UploadFrom opens the content with open and uploads it as fileName. A failure
// to open is reported like any other upload failure.
func (s *Store) UploadFrom(ctx context.Context, fileName string, open func() (io.ReadCloser, error)) error {
	if fileName == "" || open == nil {
		return models.ErrNoFileSelected
	}

	content, err := open()
	if err != nil {
		s.fail(s.currentScope(), MsgUploadFailed, fileName, err)
		return err
	}
	defer content.Close()

	return s.Upload(ctx, fileName, content)
}

// Delete removes fileName after the user confirms, then reloads the listing
func (s *Store) Delete(ctx context.Context, fileName string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ConfirmDeletePrompt) {
		return models.ErrDeleteNotConfirmed
	}

	sc := s.currentScope()
	if _, err := s.svc.DeleteFile(ctx, sc.bucket, fileName); err != nil {
		s.fail(sc, MsgDeleteFailed, fileName, err)
		return err
	}
	return s.reload(ctx, sc)
}

// Download fetches fileName into a temporary blob and hands it to saver.
// The blob is released before Download returns, whatever the outcome.
func (s *Store) Download(ctx context.Context, fileName string, saver Saver) (string, error) {
	sc := s.currentScope()

	data, err := s.svc.DownloadFile(ctx, sc.bucket, fileName)
	if err != nil {
		s.fail(sc, MsgDownloadFailed, fileName, err)
		return "", err
	}

	blob, err := s.blobs.Create(data)
	if err != nil {
		s.fail(sc, MsgDownloadFailed, fileName, err)
		return "", err
	}
	defer func() {
		if err := s.blobs.Release(blob); err != nil {
			s.log.WithError(err).WithField("blob", blob.ID).Warn("failed to release blob")
		}
	}()

	saved, err := saver.Save(blob, fileName)
	if err != nil {
		s.fail(sc, MsgDownloadFailed, fileName, err)
		return "", err
	}

	s.log.WithFields(logrus.Fields{"bucket": sc.bucket, "file": fileName, "path": saved}).Info("file downloaded")
	return saved, nil
}

// OpenPreview shows an image file's URL in the preview
func (s *Store) OpenPreview(f models.File) error {
	if !f.IsImage() {
		return models.ErrNotAnImage
	}
	s.update(func(st *State) bool {
		st.Preview = f.URL
		return true
	})
	return nil
}

// ClosePreview clears the preview
func (s *Store) ClosePreview() {
	s.update(func(st *State) bool {
		if st.Preview == "" {
			return false
		}
		st.Preview = ""
		return true
	})
}
