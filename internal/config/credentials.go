package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/vidnav"
)

var logCredentials = logger.New("config:credentials")

// FileCredentials is a vidnav.CredentialSource backed by a config file. The
// decoded credentials are cached until the file changes on disk.
type FileCredentials struct {
	path string
	// Overrides are applied on top of the file on every load
	baseURL string
	token   string

	mu        sync.Mutex
	cached    *vidnav.Credentials
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewFileCredentials watches path and serves its credentials. Non-empty
// baseURL and token take precedence over the file and the environment.
func NewFileCredentials(path, baseURL, token string) (*FileCredentials, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are seen too.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fc := &FileCredentials{
		path:    filepath.Clean(path),
		baseURL: baseURL,
		token:   token,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go fc.handleEvents()
	logCredentials.Printf("Watching credentials file: %s", fc.path)
	return fc, nil
}

// Credentials implements vidnav.CredentialSource
func (fc *FileCredentials) Credentials(ctx context.Context) (vidnav.Credentials, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.cached != nil {
		return *fc.cached, nil
	}

	cfg, err := LoadFromFile(fc.path)
	if err != nil {
		return vidnav.Credentials{}, err
	}
	cfg.ApplyEnv()
	cfg.Override(fc.baseURL, fc.token)

	creds := cfg.VidnavCredentials()
	fc.cached = &creds
	logger.LogInfo("config", "Loaded credentials from %s", fc.path)
	return creds, nil
}

// Invalidate drops the cached credentials
func (fc *FileCredentials) Invalidate() {
	fc.mu.Lock()
	fc.cached = nil
	fc.mu.Unlock()
}

// Close stops watching the file
func (fc *FileCredentials) Close() error {
	var err error
	fc.closeOnce.Do(func() {
		close(fc.done)
		err = fc.watcher.Close()
	})
	return err
}

func (fc *FileCredentials) handleEvents() {
	for {
		select {
		case <-fc.done:
			return

		case event, ok := <-fc.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fc.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logCredentials.Printf("Credentials file changed (%s), dropping cache", event.Op)
				fc.Invalidate()
			}

		case err, ok := <-fc.watcher.Errors:
			if !ok {
				return
			}
			logger.LogWarn("config", "Credentials watcher error: %v", err)
		}
	}
}
