package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Azan resolves the active recording, downloading the default one into
// downloadDir when it is missing and the default is allowed.
type Azan struct {
	store       Storage
	downloadDir string
	defaultURL  string
	useDefault  bool
	client      *http.Client

	mu   sync.RWMutex
	name string
}

func NewAzan(store Storage, name, defaultURL string, useDefault bool, downloadDir string) *Azan {
	return &Azan{
		store:       store,
		name:        name,
		defaultURL:  defaultURL,
		useDefault:  useDefault,
		downloadDir: downloadDir,
		client:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (a *Azan) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name
}

// Use switches the active recording.
func (a *Azan) Use(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = name
}

func (a *Azan) Path(ctx context.Context) (string, error) {
	name := a.Name()
	path, err := a.store.Open(ctx, name)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, ErrNotFound) || !a.useDefault || a.defaultURL == "" {
		return "", err
	}

	local := filepath.Join(a.downloadDir, filepath.Base(name))
	log.Info().Str("url", a.defaultURL).Str("path", local).Msg("downloading default azan")
	if err := a.download(ctx, local); err != nil {
		return "", fmt.Errorf("download default azan: %w", err)
	}
	return local, nil
}

func (a *Azan) download(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.defaultURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return writeFile(path, resp.Body)
}
