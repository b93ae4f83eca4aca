package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LockVersion is written into every lock file this build saves.
const LockVersion = "1"

// ErrLockVersion means the lock file was written by a newer wcagtint.
var ErrLockVersion = errors.New("unsupported plugin lock version")

// Lock is the on-disk plugin state: enable and disable lists plus the
// external plugins that were added with "wcagtint plugins add". Its lists
// take precedence over the environment.
type Lock struct {
	Version         string                         `json:"version,omitempty"`
	EnabledPlugins  []string                       `json:"enabled_plugins,omitempty"`
	DisabledPlugins []string                       `json:"disabled_plugins,omitempty"`
	ExternalPlugins map[string]*ExternalPluginMeta `json:"external_plugins,omitempty"`
}

// ExternalPluginMeta is one added executable. Name and Type come from the
// plugin's --plugin-info, not from the file name.
type ExternalPluginMeta struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	InstalledAt string `json:"installed_at,omitempty"` // RFC 3339, UTC
	// Config is merged into the plugin arguments of every run.
	Config map[string]any `json:"config,omitempty"`
}

// NewLock returns an empty lock of the current version.
func NewLock() *Lock {
	return &Lock{Version: LockVersion, ExternalPlugins: map[string]*ExternalPluginMeta{}}
}

// LoadLock parses the lock at path. Errors wrap os.ErrNotExist when there
// is no file.
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- configured lock path
	if err != nil {
		return nil, fmt.Errorf("plugin lock: %w", err)
	}

	l := NewLock()
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("plugin lock %s: %w", path, err)
	}
	switch l.Version {
	case "", LockVersion:
		l.Version = LockVersion
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrLockVersion, l.Version)
	}
	if l.ExternalPlugins == nil {
		l.ExternalPlugins = map[string]*ExternalPluginMeta{}
	}
	return l, nil
}

// LoadOrCreateLock is LoadLock, with a missing file read as an empty lock.
func LoadOrCreateLock(path string) (*Lock, error) {
	l, err := LoadLock(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewLock(), nil
	}
	return l, err
}

// Save writes the lock through a temporary file in the same directory so a
// crash never leaves half a lock behind.
func (l *Lock) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 -- config directory
		return fmt.Errorf("plugin lock directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".plugins-*.json")
	if err != nil {
		return fmt.Errorf("plugin lock: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("plugin lock: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("plugin lock: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// AddExternal stores meta under its name, stamping InstalledAt if unset.
func (l *Lock) AddExternal(meta *ExternalPluginMeta) {
	if meta.InstalledAt == "" {
		meta.InstalledAt = time.Now().UTC().Format(time.RFC3339)
	}
	l.ExternalPlugins[meta.Name] = meta
}

// RemoveExternal drops name and reports whether it was present.
func (l *Lock) RemoveExternal(name string) bool {
	_, ok := l.ExternalPlugins[name]
	delete(l.ExternalPlugins, name)
	return ok
}
