package sweep

import "strings"

// Mode selects which objects a run targets.
type Mode int

const (
	// ModeAllObjects matches every key in the bucket.
	ModeAllObjects Mode = iota
	// ModeImagesOnly matches keys with a recognized image file extension.
	ModeImagesOnly
)

func (m Mode) String() string {
	if m == ModeImagesOnly {
		return "images-only"
	}
	return "all-objects"
}

// Recognized image extensions, matched case-insensitively against the key
// suffix after the last dot.
var imageExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {},
	"tiff": {}, "tif": {}, "webp": {}, "svg": {}, "ico": {},
	"avif": {}, "heic": {}, "heif": {},
}

// Matches reports whether the key is targeted under the given mode. Keys
// without an extension never match ModeImagesOnly.
func Matches(key string, mode Mode) bool {
	if mode == ModeAllObjects {
		return true
	}
	idx := strings.LastIndexByte(key, '.')
	if idx < 0 || idx == len(key)-1 {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(key[idx+1:])]
	return ok
}
