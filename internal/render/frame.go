package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/lifeboatapi/screensim/internal/screen"
)

// Frame rasterizes a snapshot at device resolution.
func Frame(snap screen.Snapshot) *image.NRGBA {
	r := NewRaster()
	snap.Paint(r)
	return r.Image()
}

// WritePNG encodes a snapshot as PNG.
func WritePNG(w io.Writer, snap screen.Snapshot) error {
	return png.Encode(w, Frame(snap))
}

// SavePNG writes a snapshot to a PNG file at path.
func SavePNG(path string, snap screen.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// wrap breaks text into lines no wider than width, measured by advance.
// Words longer than a line are broken by character.
func wrap(text string, width int, advance func(string) int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if advance(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for advance(word) > width && len(word) > 1 {
				cut := fit(word, width, advance)
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// fit returns how many leading bytes of word fit in width, at least one.
func fit(word string, width int, advance func(string) int) int {
	n := 1
	for n < len(word) && advance(word[:n+1]) <= width {
		n++
	}
	return n
}
