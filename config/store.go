package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Store holds the current configuration and can reload it from disk
type Store struct {
	sync.RWMutex
	path    string
	current *Config
}

func NewStore(path string) (*Store, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: filepath.Clean(path), current: cfg}, nil
}

// StaticStore wraps an already loaded configuration. Reload is a no-op.
func StaticStore(cfg *Config) *Store {
	return &Store{current: cfg}
}

func (s *Store) Current() *Config {
	s.RLock()
	defer s.RUnlock()
	return s.current
}

// Reload re-reads the config file. The previous configuration is kept on error.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	cfg, err := LoadConfig(s.path)
	if err != nil {
		return err
	}

	s.Lock()
	s.current = cfg
	s.Unlock()

	log.WithFields(log.Fields{
		"path":  s.path,
		"feeds": len(cfg.Feeds),
	}).Info("Reloaded configuration")
	return nil
}

// Watch reloads the configuration whenever the file is written, until ctx is done.
// The directory is watched so editors that replace the file are picked up too.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("could not watch %s: %w", s.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := s.Reload(); err != nil {
					log.WithFields(log.Fields{
						"path":  s.path,
						"error": err,
					}).Error("Error reloading configuration, keeping previous")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Config watcher error: %v", err)
		}
	}
}
