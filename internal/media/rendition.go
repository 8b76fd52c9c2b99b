package media

import (
	"path"
	"strconv"
	"strings"
)

// Kind classifies a rendition
type Kind int

const (
	KindDownload Kind = iota
	KindImage
	KindFlash
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindFlash:
		return "flash"
	default:
		return "download"
	}
}

// KindForExtension classifies a file extension
func KindForExtension(ext string) Kind {
	ext = normalizeExt(ext)
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	if ext == "swf" {
		return KindFlash
	}
	return KindDownload
}

var imageExtensions = map[string]bool{
	"jpg": false, "jpeg": false, "gif": false, "png": false,
	"tif": false, "tiff": false, "webp": false,
	"svg": true,
}

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"png":  "image/png",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"swf":  "application/x-shockwave-flash",
	"pdf":  "application/pdf",
	"zip":  "application/zip",
	"mp4":  "video/mp4",
}

// IsImageExtension reports whether ext is an image format
func IsImageExtension(ext string) bool {
	_, ok := imageExtensions[normalizeExt(ext)]
	return ok
}

// IsVectorExtension reports whether ext is a vector image format
func IsVectorExtension(ext string) bool {
	return imageExtensions[normalizeExt(ext)]
}

// IsRasterExtension reports whether ext is a raster image format
func IsRasterExtension(ext string) bool {
	return IsImageExtension(ext) && !IsVectorExtension(ext)
}

// MimeTypeForExtension returns the MIME type for ext, or application/octet-stream
func MimeTypeForExtension(ext string) string {
	if m, ok := mimeTypes[normalizeExt(ext)]; ok {
		return m
	}
	return "application/octet-stream"
}

// ExtensionForMimeType returns a file extension for a MIME type, or ""
func ExtensionForMimeType(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return "jpg"
	case "image/tiff":
		return "tif"
	}
	for ext, m := range mimeTypes {
		if strings.EqualFold(m, mimeType) {
			return ext
		}
	}
	return ""
}

// Extension returns the lower-case extension of a file name without the dot
func Extension(name string) string {
	return normalizeExt(path.Ext(name))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Rendition is a selected rendition of an asset. Renditions are selected, never
// mutated; a virtual rendition describes a crop, rotation or downscale of its
// source rendition that is produced on delivery.
type Rendition struct {
	// Name of the stored rendition this one is based on.
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	Extension string `json:"extension"`
	Kind      Kind   `json:"kind"`

	Width  int64 `json:"width,omitempty"`
	Height int64 `json:"height,omitempty"`

	Crop     *CropDimension `json:"crop,omitempty"`
	Rotation Rotation       `json:"rotation,omitempty"`

	// MediaFormat is the accepted format this rendition satisfied, if any.
	MediaFormat string `json:"mediaFormat,omitempty"`

	Virtual bool `json:"virtual,omitempty"`

	// Path is the host-less delivery path, URL the externalized link.
	Path string `json:"path"`
	URL  string `json:"url"`
}

// IsImage reports whether the rendition is an image
func (r *Rendition) IsImage() bool { return r.Kind == KindImage }

// IsFlash reports whether the rendition is a flash movie
func (r *Rendition) IsFlash() bool { return r.Kind == KindFlash }

// IsDownload reports whether the rendition is delivered as a download; every
// non-image rendition is.
func (r *Rendition) IsDownload() bool { return r.Kind != KindImage }

// IsVector reports whether the rendition is a vector image
func (r *Rendition) IsVector() bool { return IsVectorExtension(r.Extension) }

// Dimension returns width and height
func (r *Rendition) Dimension() Dimension {
	return Dimension{Width: r.Width, Height: r.Height}
}

// Ratio returns width/height, or 0 if unknown
func (r *Rendition) Ratio() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
