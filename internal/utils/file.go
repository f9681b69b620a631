package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supported input formats for scanned pages
var imageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"tiff": true,
	"tif":  true,
	"bmp":  true,
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has a supported scan-image extension
func IsImageFile(filename string) bool {
	return imageExts[GetFileExtension(filename)]
}

// OutputFilename generates an output filename from an input name, an
// optional page suffix ("_left"/"_right") and an output format. An empty
// format keeps the input extension.
func OutputFilename(inputFile, suffix, format string) string {
	baseName := filepath.Base(inputFile)
	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))

	if format == "" {
		format = GetFileExtension(inputFile)
		if format == "" {
			format = "jpg"
		}
	}

	return fmt.Sprintf("%s%s.%s", nameWithoutExt, suffix, format)
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if os.IsNotExist(err) {
		return false
	}
	return info.IsDir()
}
