package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Kind namespaces stored images by the entity they belong to
type Kind string

const (
	KindRecipe  Kind = "recipe"
	KindArticle Kind = "article"
)

const maxExtLen = 10

// ImagePath maps an upload to its storage key: uploads/<kind>/<id>.<ext>.
// The extension comes from originalName, lower-cased and limited to [a-z0-9];
// fallbackExt is used when originalName has no usable extension. Nothing else
// from originalName reaches the result.
func ImagePath(kind Kind, originalName, fallbackExt string, id uuid.UUID) string {
	ext := cleanExt(path.Ext(strings.ReplaceAll(originalName, "\\", "/")))
	if ext == "" {
		ext = cleanExt(fallbackExt)
	}

	name := id.String()
	if ext != "" {
		name += "." + ext
	}
	return path.Join("uploads", string(kind), name)
}

// NewImagePath is ImagePath with a fresh random id
func NewImagePath(kind Kind, originalName, fallbackExt string) string {
	return ImagePath(kind, originalName, fallbackExt, uuid.New())
}

func cleanExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
