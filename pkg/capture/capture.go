// Package capture runs the on-device text recognition step for photographed
// cards: image conditioning via imaging plus local Tesseract passes. Its
// output is the raw multi-line text the cardscan engine consumes; no
// interpretation of the text happens here.
package capture

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ErrNoText is returned when no pass produced any usable text.
var ErrNoText = errors.New("no text recognized")

// Character whitelists per pass. Card faces carry digits, upper-case Latin
// names/labels and a handful of separators; constraining Tesseract to these
// cuts most misreads before the scan engine even sees the text.
const (
	cardWhitelist  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ /.-*"
	digitWhitelist = "0123456789 /.-"
)

// RecognizeCardText OCRs one captured card side and returns the recognized
// text with line structure preserved. Line order matters downstream (the
// scan engine uses line position as a tie-break), so variants from the extra
// passes are appended as additional lines rather than merged.
func RecognizeCardText(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	gray := conditionCardImage(img)

	var blocks []string

	// Base pass on the conditioned grayscale image.
	if text, err := recognizeImage(gray, cardWhitelist); err == nil && text != "" {
		blocks = append(blocks, text)
	}

	// Adaptive threshold handles uneven lighting across the card face.
	adaptive := adaptiveThreshold(gray, 15, 7)
	if text, err := recognizeImage(adaptive, cardWhitelist); err == nil && text != "" {
		blocks = append(blocks, text)
	}

	// Inverted pass: embossed silver-on-dark digits often only resolve
	// against an inverted binarized image.
	inverted := imaging.Invert(binarize(gray, 200))
	if text, err := recognizeImage(inverted, digitWhitelist); err == nil && text != "" {
		blocks = append(blocks, text)
	}

	out := joinBlocks(blocks)
	if out == "" {
		return "", ErrNoText
	}
	log.Printf("capture: %s recognized %d passes, %d chars", path, len(blocks), len(out))
	return out, nil
}

// recognizeImage writes the processed frame to a temp file and runs one
// Tesseract pass over it with the given whitelist.
func recognizeImage(img image.Image, whitelist string) (string, error) {
	tmpFile, err := os.CreateTemp("", "capture-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	tmp := tmpFile.Name()
	_ = tmpFile.Close()
	defer os.Remove(tmp)
	if err := imaging.Save(img, tmp); err != nil {
		return "", fmt.Errorf("save frame: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	_ = client.SetWhitelist(whitelist)
	_ = client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT)
	client.SetImage(tmp)
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// joinBlocks concatenates pass outputs line-wise, dropping blank lines and
// exact duplicate lines so repeated passes do not distort line positions.
func joinBlocks(blocks []string) string {
	var lines []string
	seen := map[string]struct{}{}
	for _, b := range blocks {
		for _, l := range strings.Split(b, "\n") {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}
