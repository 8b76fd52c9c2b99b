package asset

import (
	"path"
	"strconv"
	"strings"

	"github.com/ironsheep/media-handler/internal/media"
)

// Delivery path selectors
const (
	SelectorImageFile          = "image_file"
	SelectorDownloadAttachment = "download_attachment"
)

// storedPath returns the repository path of a stored rendition
func (a *Asset) storedPath(name string) string {
	if name == OriginalRendition {
		return a.src.Path
	}
	return a.src.Path + "/renditions/" + name
}

// deliveryPath returns the path of a stored rendition delivered as-is.
// Downloads requested as attachments get the attachment selector.
func (a *Asset) deliveryPath(c candidate, args media.Args) string {
	p := a.storedPath(c.name)
	if args.ContentDispositionAttachment && c.kind != media.KindImage {
		return p + "." + SelectorDownloadAttachment + ".file/" + path.Base(p)
	}
	return p
}

// virtualPath returns the path of a rendition produced on delivery:
//
//	<rendition>.image_file.<width>.<height>[.<crop>][.<rotation>].file/<name>
func (a *Asset) virtualPath(c candidate, target media.Dimension) string {
	return imageFilePath(a.storedPath(c.name),
		strconv.FormatInt(target.Width, 10), strconv.FormatInt(target.Height, 10),
		c.crop, c.rotation)
}

func imageFilePath(base, width, height string, crop *media.CropDimension, rotation media.Rotation) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("." + SelectorImageFile + ".")
	b.WriteString(width)
	b.WriteByte('.')
	b.WriteString(height)
	if crop != nil {
		b.WriteByte('.')
		b.WriteString(crop.CropString())
	}
	if rotation != 0 {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(int(rotation)))
	}
	b.WriteString(".file/")
	b.WriteString(path.Base(base))
	return b.String()
}
