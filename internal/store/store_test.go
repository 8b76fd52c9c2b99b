package store

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/media-handler/internal/asset"
	imgcache "github.com/ironsheep/media-handler/internal/imaging"
	"github.com/ironsheep/media-handler/internal/media"
)

func TestMemoryStore(t *testing.T) {
	src := &asset.Source{
		Path:       "/content/dam/a.jpg",
		Metadata:   map[string]any{asset.MetaTitle: "A"},
		Renditions: []asset.SourceRendition{{Name: asset.OriginalRendition, MimeType: "image/jpeg", Width: 10, Height: 10}},
	}
	s, err := NewMemoryStore(src, &asset.Source{Path: "/content/dam/b.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/content/dam/a.jpg", "/content/dam/b.pdf"}, s.Paths())

	src.Metadata[asset.MetaTitle] = "changed after put"

	loaded, err := s.Load("/content/dam/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "A", loaded.Metadata[asset.MetaTitle])

	loaded.Renditions[0].Width = 1
	again, err := s.Load("/content/dam/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(10), again.Renditions[0].Width)

	s.Delete("/content/dam/a.jpg")
	_, err = s.Load("/content/dam/a.jpg")
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)

	assert.ErrorIs(t, s.Put(nil), media.ErrInvalidArgument)
	assert.ErrorIs(t, s.Put(&asset.Source{}), media.ErrInvalidArgument)
	_, err = NewMemoryStore(&asset.Source{})
	assert.ErrorIs(t, err, media.ErrInvalidArgument)
}

// writeImage saves a solid image, creating parent folders
func writeImage(t *testing.T, file string, width, height int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, imaging.Save(imaging.New(width, height, color.NRGBA{0, 0, 255, 255}), file))
}

func writeFile(t *testing.T, file, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
}

func testTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	hero := filepath.Join(root, "content", "dam", "hero.jpg")
	writeImage(t, hero, 160, 120)
	writeImage(t, hero+RenditionsSuffix+"/cq5dam.web.80.60.jpeg", 80, 60)
	writeImage(t, hero+RenditionsSuffix+"/cq5dam.thumbnail.48.48.png", 48, 48)
	writeFile(t, hero+MetaSuffix, `
name: Hero Image.jpg
metadata:
  dc:title: Hero
  dc:description:
    - first
    - second
`)
	writeFile(t, filepath.Join(root, "content", "dam", "doc.pdf"), "%PDF-1.4")
	return root
}

func TestFilesystemStore_Load(t *testing.T) {
	cache := imgcache.NewDimensionCache()
	s, err := NewFilesystemStore(testTree(t), WithDimensionCache(cache))
	require.NoError(t, err)

	src, err := s.Load("/content/dam/hero.jpg")
	require.NoError(t, err)

	assert.Equal(t, "/content/dam/hero.jpg", src.Path)
	assert.Equal(t, "Hero Image.jpg", src.Name)
	assert.Equal(t, "Hero", src.Metadata[asset.MetaTitle])
	assert.Equal(t, []any{"first", "second"}, src.Metadata[asset.MetaDescription])
	assert.Equal(t, []asset.SourceRendition{
		{Name: asset.OriginalRendition, MimeType: "image/jpeg", Width: 160, Height: 120},
		{Name: "cq5dam.thumbnail.48.48.png", MimeType: "image/png", Width: 48, Height: 48},
		{Name: "cq5dam.web.80.60.jpeg", MimeType: "image/jpeg", Width: 80, Height: 60},
	}, src.Renditions)
	assert.Equal(t, 3, cache.Len())
}

func TestFilesystemStore_DownloadAsset(t *testing.T) {
	s, err := NewFilesystemStore(testTree(t))
	require.NoError(t, err)

	src, err := s.Load("content/dam/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/content/dam/doc.pdf", src.Path)
	assert.Nil(t, src.Metadata)
	assert.Equal(t, []asset.SourceRendition{
		{Name: asset.OriginalRendition, MimeType: "application/pdf"},
	}, src.Renditions)
}

func TestFilesystemStore_Errors(t *testing.T) {
	root := testTree(t)
	s, err := NewFilesystemStore(root)
	require.NoError(t, err)

	_, err = s.Load("/content/dam/missing.jpg")
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)

	_, err = s.Load("/content/dam")
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)

	_, err = s.Load("")
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)

	for _, p := range []string{"/../outside.jpg", "../../etc/passwd", "/content/../../x.jpg"} {
		_, err = s.Load(p)
		assert.ErrorIs(t, err, ErrPathTraversal, p)
		assert.ErrorIs(t, err, media.ErrInvalidArgument, p)
	}

	writeImage(t, filepath.Join(root, "content", "dam", "broken.png"), 4, 4)
	writeFile(t, filepath.Join(root, "content", "dam", "broken.png"+MetaSuffix), "metadata: [unclosed")
	_, err = s.Load("/content/dam/broken.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, asset.ErrAssetNotFound)
}

func TestNewFilesystemStore_Invalid(t *testing.T) {
	_, err := NewFilesystemStore(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, file, "x")
	_, err = NewFilesystemStore(file)
	assert.Error(t, err)
}

func TestFilesystemStore_WrapRescalesAgainstStoredPreview(t *testing.T) {
	s, err := NewFilesystemStore(testTree(t))
	require.NoError(t, err)
	src, err := s.Load("/content/dam/hero.jpg")
	require.NoError(t, err)

	a, err := asset.Wrap(src, &media.CropDimension{Left: 10, Top: 5, Width: 20, Height: 15}, 0, media.Args{}, asset.Context{})
	require.NoError(t, err)
	assert.Equal(t, &media.CropDimension{Left: 20, Top: 10, Width: 40, Height: 30}, a.Crop())
	assert.Equal(t, "Hero Image.jpg", a.Name())
	assert.Equal(t, "first", a.AltText())
}
