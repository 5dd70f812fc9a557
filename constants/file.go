package constants

import "strings"

// AllowedExtensions holds the file extensions the batch reader accepts as plain text.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"text": {},
	"md":   {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MaxFilenameLength bounds the optional filename hint.
const MaxFilenameLength = 255
