// Package image loads images from disk or HTTP(S) and reduces them to a
// single representative colour.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	httputil "github.com/jmylchreest/wcagtint/internal/util/http"
)

// Extensions lists the file suffixes picked up when a directory is given.
var Extensions = map[string]bool{
	".gif": true, ".jpeg": true, ".jpg": true, ".png": true, ".webp": true,
}

// ErrNoImages is returned for a directory without any usable image.
var ErrNoImages = errors.New("no images found")

// Loader returns the decoded image at src.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// Source loads local files and HTTP(S) URLs. The zero value is ready to
// use.
type Source struct {
	Fetch httputil.FetchOptions
}

// Load decodes src, downloading it first when it is a URL.
func (s Source) Load(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, errors.New("empty image path")
	}
	if httputil.IsURL(src) {
		body, err := httputil.Fetch(ctx, src, s.Fetch)
		if err != nil {
			return nil, err
		}
		return decode(src, bytes.NewReader(body))
	}

	f, err := openFile(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(src, f)
}

func decode(name string, r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// openFile opens a regular file, rejecting directories.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the user
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}
	return f, nil
}

// Check is a cheap pre-flight for src: URLs pass untouched, directories
// must exist and files must carry a decodable image header.
func Check(src string) error {
	switch {
	case src == "":
		return errors.New("empty image path")
	case httputil.IsURL(src):
		return nil
	}
	if st, err := os.Stat(src); err != nil {
		return err
	} else if st.IsDir() {
		return nil
	}

	f, err := openFile(src)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("%s: unsupported image: %w", src, err)
	}
	return nil
}

// Images lists the image files directly inside dir.
func Images(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !Extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		p := filepath.Join(dir, e.Name())
		// Stat follows symlinks.
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoImages)
	}
	return out, nil
}

// Resolve turns src into something Load accepts. A directory becomes one
// of its images chosen at random; anything else is returned as is.
func Resolve(src string) (string, error) {
	if httputil.IsURL(src) {
		return src, nil
	}
	st, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return src, nil
	}
	imgs, err := Images(src)
	if err != nil {
		return "", err
	}
	return imgs[rand.IntN(len(imgs))], nil
}
