// Package seed derives reproducible seeds for the random base-colour input.
package seed

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Mode selects where a seed comes from.
type Mode string

const (
	ModeRandom Mode = "random" // crypto/rand, differs per run
	ModeManual Mode = "manual" // caller-supplied value
	ModeText   Mode = "text"   // hash of a string such as a brand name
)

var modes = [...]Mode{ModeRandom, ModeManual, ModeText}

var _ pflag.Value = (*Mode)(nil)

func ValidModes() []Mode { return modes[:] }

func ParseMode(s string) (Mode, error) {
	for _, m := range modes {
		if string(m) == s {
			return m, nil
		}
	}
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return "", fmt.Errorf("seed mode %q not recognised (want one of %s)", s, strings.Join(names, ", "))
}

func (m *Mode) String() string { return string(*m) }

func (m *Mode) Set(s string) error {
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *Mode) Type() string { return "mode" }

// Config describes one seed request. Value is read in ModeManual and Text
// in ModeText; an empty Mode behaves like ModeRandom.
type Config struct {
	Mode  Mode
	Value *uint64
	Text  string
}

var (
	errNoValue = errors.New("manual seed mode needs a seed value")
	errNoText  = errors.New("text seed mode needs non-empty text")
)

// Seed resolves c to a concrete seed.
func (c Config) Seed() (uint64, error) {
	switch c.Mode {
	case "", ModeRandom:
		return RandomSeed()
	case ModeManual:
		if c.Value == nil {
			return 0, errNoValue
		}
		return *c.Value, nil
	case ModeText:
		if strings.TrimSpace(c.Text) == "" {
			return 0, errNoText
		}
		return TextSeed(c.Text), nil
	}
	_, err := ParseMode(string(c.Mode))
	return 0, err
}

// Calculate is shorthand for c.Seed().
func Calculate(c Config) (uint64, error) { return c.Seed() }

// TextSeed folds case and collapses whitespace before hashing, so
// "Acme  Corp" and "acme corp" share a seed.
func TextSeed(text string) uint64 {
	key := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(key))
	return binary.LittleEndian.Uint64(sum[:8])
}

func RandomSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("reading random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
