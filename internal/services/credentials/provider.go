// Package credentials supplies the YouTube Data API key from the
// environment or a watched key file.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/guychenya/chanlyze/internal/config"
	"github.com/guychenya/chanlyze/internal/logger"
)

// Source identifies where the current key came from.
type Source string

// Key sources.
const (
	SourceNone Source = "none"
	SourceEnv  Source = "env"
	SourceFile Source = "file"
)

// EventType defines the type of credential event.
type EventType int

const (
	EventLoaded EventType = iota
	EventChanged
	EventError
)

// Event represents a credential provider event.
type Event struct {
	Error  error
	Source Source
	Type   EventType
}

const debounceInterval = 100 * time.Millisecond

// Provider resolves the API key. A key in the key file takes precedence
// over the environment so a key saved at runtime wins without a restart.
type Provider struct {
	mu            sync.RWMutex
	envKey        string
	fileKey       string
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New creates a provider from envKey and the key file at filePath, and
// starts watching the file. An empty filePath disables the key file.
func New(envKey, filePath string) (*Provider, error) {
	p := &Provider{
		envKey:    strings.TrimSpace(envKey),
		filePath:  filePath,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create key file directory: %w", err)
		}

		key, err := config.ReadAPIKeyFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load key file: %w", err)
		}
		p.fileKey = key

		if err := p.startWatcher(); err != nil {
			return nil, fmt.Errorf("failed to start key file watcher: %w", err)
		}
	}

	p.sendEvent(Event{Type: EventLoaded, Source: p.Source()})
	return p, nil
}

// Events returns the event channel for subscribing to key changes.
func (p *Provider) Events() <-chan Event {
	return p.eventChan
}

// Current returns the API key in effect, or "".
func (p *Provider) Current() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.fileKey != "" {
		return p.fileKey
	}
	return p.envKey
}

// Valid reports whether a usable key is configured.
func (p *Provider) Valid() bool {
	key := p.Current()
	return key != "" && !strings.ContainsAny(key, " \t\r\n")
}

// Source reports where Current comes from.
func (p *Provider) Source() Source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch {
	case p.fileKey != "":
		return SourceFile
	case p.envKey != "":
		return SourceEnv
	default:
		return SourceNone
	}
}

// Save writes key to the key file and makes it current.
func (p *Provider) Save(key string) error {
	if p.filePath == "" {
		return fmt.Errorf("no key file configured")
	}
	key = strings.TrimSpace(key)

	tmp := p.filePath + ".tmp"
	if err := os.WriteFile(tmp, []byte("YOUTUBE_API_KEY="+key+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	if err := os.Rename(tmp, p.filePath); err != nil {
		return fmt.Errorf("failed to rename key file: %w", err)
	}

	p.mu.Lock()
	p.fileKey = key
	p.mu.Unlock()
	return nil
}

func (p *Provider) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	p.watcher = watcher

	// Watch the directory to catch editors that replace the file.
	if err := watcher.Add(filepath.Dir(p.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go p.watchLoop()
	return nil
}

func (p *Provider) watchLoop() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(p.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				p.mu.Lock()
				if p.debounceTimer != nil {
					p.debounceTimer.Stop()
				}
				p.debounceTimer = time.AfterFunc(debounceInterval, p.handleFileChange)
				p.mu.Unlock()
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.sendEvent(Event{Type: EventError, Error: err})

		case <-p.stopChan:
			return
		}
	}
}

func (p *Provider) handleFileChange() {
	key, err := config.ReadAPIKeyFile(p.filePath)
	if err != nil {
		logger.Warn("failed to reload key file", "path", p.filePath, "error", err)
		p.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	p.mu.Lock()
	changed := key != p.fileKey
	p.fileKey = key
	p.mu.Unlock()

	if changed {
		logger.Info("API key reloaded", "source", p.Source())
		p.sendEvent(Event{Type: EventChanged, Source: p.Source()})
	}
}

// sendEvent sends an event non-blocking, dropping the oldest when full.
func (p *Provider) sendEvent(event Event) {
	select {
	case p.eventChan <- event:
	default:
		select {
		case <-p.eventChan:
		default:
		}
		select {
		case p.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher.
func (p *Provider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.stopChan)

		p.mu.Lock()
		if p.debounceTimer != nil {
			p.debounceTimer.Stop()
		}
		p.mu.Unlock()

		if p.watcher != nil {
			err = p.watcher.Close()
		}
	})
	return err
}
