package store

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/media-handler/internal/asset"
	"github.com/ironsheep/media-handler/internal/imaging"
	"github.com/ironsheep/media-handler/internal/media"
)

// File name suffixes of the filesystem layout
const (
	MetaSuffix       = ".meta.yaml"
	RenditionsSuffix = ".renditions"
)

// ErrPathTraversal is returned for asset paths that leave the store root
var ErrPathTraversal = fmt.Errorf("%w: path traversal detected", media.ErrInvalidArgument)

// sidecar is the content of a <file>.meta.yaml file
type sidecar struct {
	Name     string         `yaml:"name"`
	Metadata map[string]any `yaml:"metadata"`
}

// FilesystemStore serves assets from a directory tree
type FilesystemStore struct {
	root string
	dims *imaging.DimensionCache
}

// FilesystemOption configures a FilesystemStore
type FilesystemOption func(*FilesystemStore)

// WithDimensionCache shares a dimension cache between stores
func WithDimensionCache(c *imaging.DimensionCache) FilesystemOption {
	return func(s *FilesystemStore) { s.dims = c }
}

// NewFilesystemStore creates a store rooted at an existing directory
func NewFilesystemStore(root string, opts ...FilesystemOption) (*FilesystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open store root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store root %s is not a directory", abs)
	}
	s := &FilesystemStore{root: abs}
	for _, opt := range opts {
		opt(s)
	}
	if s.dims == nil {
		s.dims = imaging.NewDimensionCache()
	}
	return s, nil
}

// Root returns the absolute root directory
func (s *FilesystemStore) Root() string { return s.root }

// Load implements asset.Store
func (s *FilesystemStore) Load(assetPath string) (*asset.Source, error) {
	clean := path.Clean("/" + strings.TrimPrefix(assetPath, "/"))
	file, err := s.file(assetPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", asset.ErrAssetNotFound, assetPath)
		}
		return nil, fmt.Errorf("failed to stat asset: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a folder", asset.ErrAssetNotFound, assetPath)
	}

	src := &asset.Source{Path: clean}
	if err := s.readSidecar(file, src); err != nil {
		return nil, err
	}

	original, err := s.rendition(file, asset.OriginalRendition, path.Base(clean))
	if err != nil {
		return nil, err
	}
	src.Renditions = append(src.Renditions, original)

	entries, err := os.ReadDir(file + RenditionsSuffix)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read renditions: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == asset.OriginalRendition {
			continue
		}
		r, err := s.rendition(filepath.Join(file+RenditionsSuffix, e.Name()), e.Name(), e.Name())
		if err != nil {
			return nil, err
		}
		src.Renditions = append(src.Renditions, r)
	}
	return src, nil
}

// file maps an asset path to its file, refusing paths outside the root
func (s *FilesystemStore) file(assetPath string) (string, error) {
	if assetPath == "" {
		return "", fmt.Errorf("%w: empty asset path", asset.ErrAssetNotFound)
	}
	file := filepath.Join(s.root, filepath.FromSlash(assetPath))
	rel, err := filepath.Rel(s.root, file)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, assetPath)
	}
	return file, nil
}

func (s *FilesystemStore) readSidecar(file string, src *asset.Source) error {
	data, err := os.ReadFile(file + MetaSuffix)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	var meta sidecar
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("failed to parse metadata %s: %w", file+MetaSuffix, err)
	}
	src.Name = meta.Name
	src.Metadata = meta.Metadata
	return nil
}

// rendition describes one file. fileName decides the MIME type.
func (s *FilesystemStore) rendition(file, name, fileName string) (asset.SourceRendition, error) {
	ext := media.Extension(fileName)
	r := asset.SourceRendition{Name: name, MimeType: media.MimeTypeForExtension(ext)}
	if !media.IsRasterExtension(ext) {
		return r, nil
	}
	dim, err := s.dims.Probe(file)
	switch {
	case errors.Is(err, imaging.ErrNotRaster):
		return r, nil
	case err != nil:
		return r, err
	}
	r.Width, r.Height = dim.Width, dim.Height
	return r, nil
}

var _ asset.Store = (*FilesystemStore)(nil)
