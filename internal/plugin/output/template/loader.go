// Package template resolves the text/template sources of output plugins.
// A file under <base>/<plugin>/ overrides the template of the same name
// compiled into the plugin, so users can restyle an output without a
// rebuild.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/hashicorp/go-hclog"
)

// ErrTemplateExists is returned by Dump when an override is already there.
var ErrTemplateExists = errors.New("template override already exists")

// Loader serves one plugin's templates.
type Loader struct {
	plugin   string
	embedded fs.FS
	base     string
	log      hclog.Logger
}

// DefaultBase is $XDG_CONFIG_HOME/wcagtint/templates, or "" when there is no
// config directory.
func DefaultBase() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wcagtint", "templates")
}

// New returns a Loader for plugin using DefaultBase for overrides.
func New(plugin string, embedded fs.FS) *Loader {
	return &Loader{plugin: plugin, embedded: embedded, base: DefaultBase(), log: hclog.NewNullLogger()}
}

// WithDir returns a copy of l that looks for overrides under base. An
// empty base disables overrides.
func (l *Loader) WithDir(base string) *Loader {
	c := *l
	c.base = base
	return &c
}

// WithLogger returns a copy of l that logs through log.
func (l *Loader) WithLogger(log hclog.Logger) *Loader {
	c := *l
	if log != nil {
		c.log = log
	}
	return &c
}

// Dir is where this plugin's overrides live.
func (l *Loader) Dir() string {
	return filepath.Join(l.base, l.plugin)
}

// Path is the override location for name.
func (l *Loader) Path(name string) string {
	return filepath.Join(l.Dir(), filepath.FromSlash(name))
}

// Overridden reports whether a user copy of name exists.
func (l *Loader) Overridden(name string) bool {
	if l.base == "" {
		return false
	}
	st, err := os.Stat(l.Path(name))
	return err == nil && st.Mode().IsRegular()
}

// Read returns the source of name and whether it came from an override.
func (l *Loader) Read(name string) (src []byte, override bool, err error) {
	if l.Overridden(name) {
		p := l.Path(name)
		if src, err = os.ReadFile(p); err == nil { // #nosec G304 -- user template directory
			l.log.Debug("template override", "plugin", l.plugin, "path", p)
			return src, true, nil
		}
		l.log.Warn("unreadable template override, using built-in", "path", p, "error", err)
	}
	src, err = fs.ReadFile(l.embedded, name)
	if err != nil {
		return nil, false, fmt.Errorf("%s template %s: %w", l.plugin, name, err)
	}
	return src, false, nil
}

// Parse reads name and compiles it with funcs.
func (l *Loader) Parse(name string, funcs texttemplate.FuncMap) (*texttemplate.Template, error) {
	src, override, err := l.Read(name)
	if err != nil {
		return nil, err
	}
	t, err := texttemplate.New(path.Base(name)).Funcs(funcs).Parse(string(src))
	if err != nil {
		if override {
			return nil, fmt.Errorf("override %s: %w", l.Path(name), err)
		}
		return nil, fmt.Errorf("%s template %s: %w", l.plugin, name, err)
	}
	return t, nil
}

// Names lists the built-in templates, in lexical order.
func (l *Loader) Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(l.embedded, ".", func(p string, d fs.DirEntry, err error) error {
		if err == nil && d.Type().IsRegular() && strings.HasSuffix(p, ".tmpl") {
			names = append(names, p)
		}
		return err
	})
	return names, err
}

// Dump writes the built-in name to its override path. An existing override
// is kept unless force is set.
func (l *Loader) Dump(name string, force bool) error {
	src, err := fs.ReadFile(l.embedded, name)
	if err != nil {
		return err
	}
	dst := l.Path(name)
	if !force && l.Overridden(name) {
		return fmt.Errorf("%w: %s", ErrTemplateExists, dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { // #nosec G301 -- user config directory
		return err
	}
	if err := os.WriteFile(dst, src, 0o644); err != nil { // #nosec G306 -- users edit these
		return err
	}
	l.log.Debug("dumped template", "path", dst)
	return nil
}

// DumpAll dumps every built-in template and returns the paths written.
// Existing overrides are skipped and reported as one ErrTemplateExists.
func (l *Loader) DumpAll(force bool) ([]string, error) {
	names, err := l.Names()
	if err != nil {
		return nil, err
	}
	var written []string
	var errs []error
	for _, n := range names {
		err := l.Dump(n, force)
		switch {
		case err == nil:
			written = append(written, l.Path(n))
		case errors.Is(err, ErrTemplateExists):
			errs = append(errs, err)
		default:
			return written, err
		}
	}
	return written, errors.Join(errs...)
}
