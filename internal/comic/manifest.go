// Package comic generates and lists comic gallery manifests.
package comic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/open-cli-collective/mdsite/pkg/md"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

var numberRun = regexp.MustCompile(`\d+`)

// IsImage reports whether name has a gallery image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// isCover reports whether name is a cover.* image.
func isCover(name string) bool {
	return IsImage(name) && strings.EqualFold(strings.TrimSuffix(name, filepath.Ext(name)), "cover")
}

// SortImages orders file names by their first run of digits, then by name.
// Names without digits sort after numbered ones.
func SortImages(names []string) {
	key := func(name string) *big.Int {
		m := numberRun.FindString(name)
		if m == "" {
			return nil
		}
		n, _ := new(big.Int).SetString(m, 10)
		return n
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := key(names[i]), key(names[j])
		switch {
		case a != nil && b != nil:
			if c := a.Cmp(b); c != 0 {
				return c < 0
			}
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return names[i] < names[j]
	})
}

// Options configures manifest generation.
type Options struct {
	// Root is the comics folder tree to scan.
	Root string
	// PublicDir is the directory served at the site root; image URLs are
	// made root-relative to it.
	PublicDir string
	// Force overwrites hand-edited names and authors.
	Force bool
	// DryRun reports what would be written without touching files.
	DryRun bool
	Logger *zap.Logger
}

// Status is the outcome for one gallery folder.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// Result describes the manifest generated for one gallery folder.
type Result struct {
	Dir      string      `json:"dir"`
	Path     string      `json:"path"`
	Status   Status      `json:"status"`
	DryRun   bool        `json:"dry_run,omitempty"`
	Manifest md.Manifest `json:"manifest"`
}

// ValidateManifest checks a manifest before it is written.
func ValidateManifest(m *md.Manifest) error {
	return validation.ValidateStruct(m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Cover, validation.By(validURL)),
		validation.Field(&m.Images, validation.Required, validation.Each(validation.By(validURL))),
	)
}

func validURL(value interface{}) error {
	s, _ := value.(string)
	if s != "" && !md.IsValidURL(s) {
		return validation.NewError("mdsite.comic.url_invalid", "must be a root-relative or http(s) URL")
	}
	return nil
}

// Generate writes a manifest.json into every folder under opts.Root that
// contains images.
func Generate(opts Options) ([]Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	publicDir := opts.PublicDir
	if publicDir == "" {
		publicDir = filepath.Dir(opts.Root)
	}

	var results []Result
	err := filepath.WalkDir(opts.Root, func(dir string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		if dir != opts.Root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		res, ok, err := generateDir(dir, publicDir, opts)
		if err != nil {
			return err
		}
		if ok {
			log.Info("comic manifest",
				zap.String("dir", dir),
				zap.String("status", string(res.Status)),
				zap.Int("images", len(res.Manifest.Images)),
			)
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate comic manifests under %s: %w", opts.Root, err)
	}
	return results, nil
}

func generateDir(dir, publicDir string, opts Options) (Result, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, false, err
	}

	var images []string
	cover := ""
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		if cover == "" && isCover(e.Name()) {
			cover = e.Name()
			continue
		}
		images = append(images, e.Name())
	}
	if len(images) == 0 {
		return Result{}, false, nil
	}
	SortImages(images)

	base, err := urlPath(publicDir, dir)
	if err != nil {
		return Result{}, false, err
	}
	if cover == "" {
		cover = images[0]
	}

	m := md.Manifest{
		ID:     filepath.Base(dir),
		Name:   filepath.Base(dir),
		Cover:  path.Join(base, cover),
		Images: make([]string, len(images)),
	}
	for i, name := range images {
		m.Images[i] = path.Join(base, name)
	}

	manifestPath := filepath.Join(dir, md.ManifestFile)
	status := StatusCreated
	existingData, err := os.ReadFile(manifestPath)
	switch {
	case err == nil:
		status = StatusUpdated
		if existing, perr := md.ParseManifest(existingData); perr == nil && !opts.Force {
			if existing.Name != "" {
				m.Name = existing.Name
			}
			m.Author = existing.Author
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Result{}, false, fmt.Errorf("read %s: %w", manifestPath, err)
	}

	if err := ValidateManifest(&m); err != nil {
		return Result{}, false, fmt.Errorf("invalid manifest for %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Result{}, false, fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if status == StatusUpdated && bytes.Equal(data, existingData) {
		status = StatusUnchanged
	}

	res := Result{Dir: dir, Path: manifestPath, Status: status, DryRun: opts.DryRun, Manifest: m}
	if opts.DryRun || status == StatusUnchanged {
		return res, true, nil
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return Result{}, false, fmt.Errorf("write %s: %w", manifestPath, err)
	}
	return res, true, nil
}

// urlPath returns the root-relative URL of dir inside publicDir.
func urlPath(publicDir, dir string) (string, error) {
	rel, err := filepath.Rel(publicDir, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the public directory %s", dir, publicDir)
	}
	return "/" + filepath.ToSlash(rel), nil
}

// Entry is an existing manifest found by List.
type Entry struct {
	Path     string       `json:"path"`
	Manifest *md.Manifest `json:"manifest,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// List reads every manifest.json under root. Unparsable manifests are
// reported with their error instead of failing the listing.
func List(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != md.ManifestFile {
			return nil
		}

		entry := Entry{Path: p}
		data, err := os.ReadFile(p)
		if err == nil {
			entry.Manifest, err = md.ParseManifest(data)
		}
		if err != nil {
			entry.Error = err.Error()
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list comic manifests under %s: %w", root, err)
	}
	return entries, nil
}
