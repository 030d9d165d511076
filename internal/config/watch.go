package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/marmos91/nfsshell/internal/logger"
)

// Watcher keeps the latest Config snapshot as the file changes. A reload
// applies a new log level and format at once; max_transfer_size is read
// fresh from Config() by the next `mount`/`handle`. The call timeout and
// default credentials are read once at startup, so a reload only logs a
// changed call timeout.
type Watcher struct {
	mu   sync.RWMutex
	cur  *Config
	path string
}

// Watch starts watching configPath (or the default location) for
// changes and returns a Watcher seeded with the initial load. This is
// the one part of nfsshell's state allowed to change without an
// explicit command, using viper.WatchConfig backed by fsnotify.
func Watch(configPath string) (*Watcher, error) {
	v := viper.New()
	setupViper(v, configPath)
	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	w := &Watcher{cur: cfg, path: configPath}

	v.OnConfigChange(func(e fsnotify.Event) {
		w.reload()
	})
	v.WatchConfig()

	return w, nil
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logger.Warn("config reload failed, keeping previous values", "error", err)
		return
	}

	w.mu.Lock()
	prev := w.cur
	w.cur = cfg
	w.mu.Unlock()

	if prev.Logging.Level != cfg.Logging.Level || prev.Logging.Format != cfg.Logging.Format {
		logger.SetLevel(cfg.Logging.Level)
		logger.SetFormat(cfg.Logging.Format)
		logger.Info("config reloaded", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	}
	if prev.CallTimeout != cfg.CallTimeout {
		logger.Info("config reloaded", "call_timeout", cfg.CallTimeout.String())
	}
}

// Config returns the current snapshot. Safe for concurrent use; the
// REPL's mount and handle commands call this to pick up the latest
// max_transfer_size.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cfg := *w.cur
	return &cfg
}

// CallTimeout is a convenience accessor used by main to bound the
// startup host binding.
func (w *Watcher) CallTimeout() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cur.CallTimeout
}
