// manifest.go resolves comic covers from per-gallery manifest files.
package md

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ManifestFile is the file name of a gallery manifest inside its folder.
const ManifestFile = "manifest.json"

// Manifest describes a comic gallery.
type Manifest struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Author string   `json:"author,omitempty"`
	Cover  string   `json:"cover,omitempty"`
	Images []string `json:"images"`
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	return &m, nil
}

// ManifestReader reads the manifest referenced by a comic directive's src.
type ManifestReader interface {
	ReadManifest(src string) (*Manifest, error)
}

// manifestPath returns the URL path of the manifest for src. A src that does
// not name a .json file is treated as the gallery folder.
func manifestPath(p string) string {
	if strings.HasSuffix(strings.ToLower(p), ".json") {
		return p
	}
	return path.Join(p, ManifestFile)
}

// FileManifests reads manifests from the site's public directory, mapping
// root-relative URLs onto paths under Root.
type FileManifests struct {
	Root string
}

// ReadManifest implements ManifestReader.
func (f FileManifests) ReadManifest(src string) (*Manifest, error) {
	file, err := f.localPath(src)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestUnavailable, err)
	}
	return ParseManifest(data)
}

func (f FileManifests) localPath(src string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrManifestUnavailable, err)
	}
	if u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "", fmt.Errorf("%w: %q is not a root-relative path", ErrManifestUnavailable, src)
	}
	// Cleaning a rooted path drops any ".." that would climb above Root.
	clean := path.Clean(manifestPath(u.Path))
	return filepath.Join(f.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// ManifestFetcher retrieves a manifest over the network.
type ManifestFetcher interface {
	GetManifest(ctx context.Context, src string) (*Manifest, error)
}

// RemoteManifests reads manifests of galleries hosted at absolute http(s) URLs.
type RemoteManifests struct {
	Fetcher ManifestFetcher
	Timeout time.Duration
}

// ReadManifest implements ManifestReader.
func (r RemoteManifests) ReadManifest(src string) (*Manifest, error) {
	if r.Fetcher == nil {
		return nil, fmt.Errorf("%w: remote manifests are disabled", ErrManifestUnavailable)
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestUnavailable, err)
	}
	u.Path = manifestPath(u.Path)
	u.RawQuery, u.Fragment = "", ""

	m, err := r.Fetcher.GetManifest(ctx, u.String())
	if err != nil {
		if errors.Is(err, ErrManifestInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrManifestUnavailable, err)
	}
	return m, nil
}

// ManifestSources dispatches root-relative sources to Local and absolute
// URLs to Remote. Either may be nil.
type ManifestSources struct {
	Local  ManifestReader
	Remote ManifestReader
}

// ReadManifest implements ManifestReader.
func (s ManifestSources) ReadManifest(src string) (*Manifest, error) {
	reader := s.Local
	if !strings.HasPrefix(strings.TrimSpace(src), "/") {
		reader = s.Remote
	}
	if reader == nil {
		return nil, fmt.Errorf("%w: no manifest source for %q", ErrManifestUnavailable, src)
	}
	return reader.ReadManifest(src)
}

// coverResolution is the outcome of resolving a comic's cover image.
type coverResolution struct {
	Cover string
	Err   error // why the manifest cover could not be used, if it was consulted
}

// resolveCover applies the cover precedence: a valid explicit cover wins,
// otherwise the manifest's cover when readable and valid, otherwise none.
// The manifest is only read when no explicit cover was given.
func resolveCover(explicit, src string, manifests ManifestReader) coverResolution {
	if explicit != "" {
		return coverResolution{Cover: explicit}
	}
	if manifests == nil {
		return coverResolution{}
	}
	m, err := manifests.ReadManifest(src)
	if err != nil {
		return coverResolution{Err: err}
	}
	cover := strings.TrimSpace(m.Cover)
	if cover == "" {
		return coverResolution{}
	}
	if !IsValidURL(cover) {
		return coverResolution{Err: fmt.Errorf("%w: manifest cover %q", ErrInvalidURL, cover)}
	}
	return coverResolution{Cover: cover}
}
