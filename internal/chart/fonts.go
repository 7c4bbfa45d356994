package chart

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrNoThaiGlyphs is returned when an explicitly configured font cannot draw Thai.
var ErrNoThaiGlyphs = errors.New("font has no Thai glyphs")

// thaiSample must be fully covered for a font to be picked for labels.
const thaiSample = "กขคสัดส่วนรายจ่าย"

// ThaiFontCandidates are tried in order when no font path is configured.
// They cover the tlwg and Noto packages on Debian, Alpine and Fedora.
var ThaiFontCandidates = []string{
	"/usr/share/fonts/truetype/tlwg/Loma.ttf",
	"/usr/share/fonts/opentype/tlwg/Loma.otf",
	"/usr/share/fonts/truetype/noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/google-noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/google-noto-vf/NotoSansThai[wght].ttf",
}

// Font is a parsed outline font plus whether it can draw Thai labels.
type Font struct {
	Path  string
	Thai  bool
	sfont *sfnt.Font
}

// LoadFont parses the font at path. An empty path tries ThaiFontCandidates
// and falls back to the bundled Go Regular face, which has no Thai glyphs.
func LoadFont(path string) (*Font, error) {
	if path != "" {
		f, err := parseFontFile(path)
		if err != nil {
			return nil, err
		}
		if !f.Thai {
			return nil, fmt.Errorf("%s: %w", path, ErrNoThaiGlyphs)
		}
		return f, nil
	}
	for _, candidate := range ThaiFontCandidates {
		f, err := parseFontFile(candidate)
		if err == nil && f.Thai {
			return f, nil
		}
	}
	sf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bundled font: %w", err)
	}
	return newFont("goregular", sf), nil
}

func parseFontFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return newFont(path, sf), nil
}

func newFont(path string, sf *sfnt.Font) *Font {
	f := &Font{Path: path, sfont: sf}
	f.Thai = f.Covers(thaiSample)
	return f
}

// Covers reports whether every rune of s maps to a real glyph.
func (f *Font) Covers(s string) bool {
	var buf sfnt.Buffer
	for _, r := range s {
		idx, err := f.sfont.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

// face builds a new face per call; opentype faces keep a scratch buffer
// and must not be shared between goroutines.
func (f *Font) face(size float64) (font.Face, error) {
	return opentype.NewFace(f.sfont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
