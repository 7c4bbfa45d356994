// Package chart renders expense breakdowns as PNG pie charts.
package chart

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/singleflight"

	"moneybot/internal/core"
	"moneybot/internal/ports"
)

var (
	ErrNothingToRender = errors.New("no positive amounts to chart")
	ErrInvalidName     = errors.New("invalid chart file name")
)

const (
	defaultWidth  = 800
	defaultHeight = 500
	// maxSlices keeps the legend readable; the tail is folded into "other".
	maxSlices  = 8
	otherLabel = "other"
	chartTitle = "สัดส่วนรายจ่าย"
	titleSize  = 20
	labelSize  = 15
)

var palette = []color.RGBA{
	{0x63, 0x6e, 0xfa, 0xff},
	{0xef, 0x55, 0x3b, 0xff},
	{0x00, 0xcc, 0x96, 0xff},
	{0xab, 0x63, 0xfa, 0xff},
	{0xff, 0xa1, 0x5a, 0xff},
	{0x19, 0xd3, 0xf3, 0xff},
	{0xff, 0x66, 0x92, 0xff},
	{0xb6, 0xe8, 0x80, 0xff},
	{0xbb, 0xbb, 0xbb, 0xff},
}

var _ ports.ChartRenderer = (*PieRenderer)(nil)

// PieRenderer writes pie charts into a directory served as static files.
type PieRenderer struct {
	dir    string
	width  int
	height int
	title  string
	font   *Font
	group  singleflight.Group
}

// NewPieRenderer creates dir if needed. Labels are drawn with f.
func NewPieRenderer(dir string, f *Font) (*PieRenderer, error) {
	if f == nil {
		return nil, errors.New("chart font is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}
	return &PieRenderer{dir: dir, width: defaultWidth, height: defaultHeight, title: chartTitle, font: f}, nil
}

// Dir is where charts are written.
func (p *PieRenderer) Dir() string { return p.dir }

// Render draws slices and writes dir/name, replacing any previous file.
// Concurrent calls for the same name share one render.
func (p *PieRenderer) Render(ctx context.Context, name string, slices []core.CategoryAmount) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".png") {
		return "", ErrInvalidName
	}
	slices = fold(positive(slices))
	if len(slices) == 0 {
		return "", ErrNothingToRender
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(p.dir, name)
	_, err, _ := p.group.Do(name, func() (any, error) {
		img, err := p.draw(slices)
		if err != nil {
			return nil, err
		}
		return nil, p.write(path, img)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// write goes through a temp file so the static server never serves a partial PNG.
func (p *PieRenderer) write(path string, img image.Image) error {
	tmp := strings.TrimSuffix(path, ".png") + ".tmp.png"
	if err := imaging.Save(img, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("encode chart: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish chart: %w", err)
	}
	return nil
}

func (p *PieRenderer) draw(slices []core.CategoryAmount) (*image.NRGBA, error) {
	titleFace, err := p.font.face(titleSize)
	if err != nil {
		return nil, fmt.Errorf("chart title face: %w", err)
	}
	defer titleFace.Close()
	labelFace, err := p.font.face(labelSize)
	if err != nil {
		return nil, fmt.Errorf("chart label face: %w", err)
	}
	defer labelFace.Close()

	img := imaging.New(p.width, p.height, color.White)

	var total float64
	for _, s := range slices {
		total += s.Amount.Float64()
	}

	// Cumulative fractions, starting at 12 o'clock going clockwise.
	bounds := make([]float64, len(slices))
	var acc float64
	for i, s := range slices {
		acc += s.Amount.Float64() / total
		bounds[i] = acc
	}

	radius := float64(p.height)*0.5 - 50
	cx, cy := radius+40, float64(p.height)*0.5+15
	for y := int(cy - radius); y <= int(cy+radius); y++ {
		for x := int(cx - radius); x <= int(cx+radius); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			img.Set(x, y, palette[sliceAt(bounds, angle/(2*math.Pi))%len(palette)])
		}
	}

	drawText(img, titleFace, 20, 28, p.title)
	lx := int(cx+radius) + 40
	for i, s := range slices {
		y := 70 + i*28
		swatch := image.Rect(lx, y-11, lx+14, y+3)
		draw.Draw(img, swatch, &image.Uniform{C: palette[i%len(palette)]}, image.Point{}, draw.Src)
		pct := s.Amount.Float64() / total * 100
		drawText(img, labelFace, lx+22, y, fmt.Sprintf("%5.1f%%  %s  %s", pct, core.FormatTotal(s.Amount), s.Name))
	}
	return img, nil
}

func sliceAt(bounds []float64, frac float64) int {
	for i, b := range bounds {
		if frac < b {
			return i
		}
	}
	return len(bounds) - 1
}

func drawText(img draw.Image, face font.Face, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x33, 0x33, 0x33, 0xff}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func positive(in []core.CategoryAmount) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(in))
	for _, s := range in {
		if s.Amount.Sign() > 0 {
			out = append(out, s)
		}
	}
	return out
}

// fold merges everything past maxSlices into a single "other" slice.
func fold(in []core.CategoryAmount) []core.CategoryAmount {
	if len(in) <= maxSlices {
		return in
	}
	out := append([]core.CategoryAmount(nil), in[:maxSlices-1]...)
	var rest core.Total
	for _, s := range in[maxSlices-1:] {
		rest = rest.Add(s.Amount)
	}
	return append(out, core.CategoryAmount{Name: otherLabel, Amount: rest})
}
