// Package assets holds the default frame and caption compiled into the binary.
package assets

import (
	"embed"
	"io/fs"
	"strings"
)

// FrameName is the embedded default frame, addressable as "embed:frame.png".
const FrameName = "frame.png"

//go:embed frame.png caption.txt
var embedded embed.FS

// FS exposes the embedded files to the asset loader.
func FS() fs.FS { return embedded }

// Caption returns the share caption without trailing whitespace.
func Caption() string {
	data, err := embedded.ReadFile("caption.txt")
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\r\n\t ")
}
