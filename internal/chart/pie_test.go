package chart

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"moneybot/internal/core"
)

func mustRenderer(t *testing.T) *PieRenderer {
	t.Helper()
	f, err := LoadFont("")
	if err != nil {
		t.Fatalf("load font: %v", err)
	}
	r, err := NewPieRenderer(filepath.Join(t.TempDir(), "static"), f)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderWritesPNG(t *testing.T) {
	r := mustRenderer(t)
	path, err := r.Render(context.Background(), "expense_chart_U1.png", []core.CategoryAmount{
		{Name: "food", Amount: core.NewTotal(30000)},
		{Name: "ค่าเช่า", Amount: core.NewTotal(10000)},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if path != filepath.Join(r.Dir(), "expense_chart_U1.png") {
		t.Fatalf("unexpected path %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != defaultWidth || b.Dy() != defaultHeight {
		t.Fatalf("unexpected size %v", b)
	}
	if _, err := os.Stat(filepath.Join(r.Dir(), "expense_chart_U1.tmp.png")); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err=%v", err)
	}
}

func TestRenderOverwrites(t *testing.T) {
	r := mustRenderer(t)
	ctx := context.Background()
	one := []core.CategoryAmount{{Name: "a", Amount: core.NewTotal(1)}}
	for i := 0; i < 2; i++ {
		if _, err := r.Render(ctx, "c.png", one); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	entries, _ := os.ReadDir(r.Dir())
	if len(entries) != 1 {
		t.Fatalf("expected a single chart file, got %d", len(entries))
	}
}

func TestRenderRejects(t *testing.T) {
	r := mustRenderer(t)
	ctx := context.Background()
	good := []core.CategoryAmount{{Name: "a", Amount: core.NewTotal(1)}}

	if _, err := r.Render(ctx, "x.png", nil); !errors.Is(err, ErrNothingToRender) {
		t.Fatalf("expected ErrNothingToRender, got %v", err)
	}
	if _, err := r.Render(ctx, "x.png", []core.CategoryAmount{{Name: "zero"}}); !errors.Is(err, ErrNothingToRender) {
		t.Fatalf("zero slices should not render, got %v", err)
	}
	for _, name := range []string{"", "../x.png", "a/b.png", "x.jpg"} {
		if _, err := r.Render(ctx, name, good); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("%q: expected ErrInvalidName, got %v", name, err)
		}
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Render(cancelled, "x.png", good); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestRenderConcurrentSameName(t *testing.T) {
	r := mustRenderer(t)
	slices := []core.CategoryAmount{{Name: "a", Amount: core.NewTotal(5)}, {Name: "b", Amount: core.NewTotal(7)}}
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Render(context.Background(), "same.png", slices)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent render: %v", err)
		}
	}
}

func TestFold(t *testing.T) {
	var in []core.CategoryAmount
	for i := 0; i < 12; i++ {
		in = append(in, core.CategoryAmount{Name: fmt.Sprintf("c%d", i), Amount: core.NewTotal(10)})
	}
	out := fold(in)
	if len(out) != maxSlices {
		t.Fatalf("expected %d slices, got %d", maxSlices, len(out))
	}
	last := out[len(out)-1]
	if last.Name != otherLabel || !last.Amount.Equal(core.NewTotal(50)) {
		t.Fatalf("unexpected tail slice %+v", last)
	}
}

func TestSliceAt(t *testing.T) {
	bounds := []float64{0.25, 0.75, 1}
	cases := map[float64]int{0: 0, 0.2: 0, 0.25: 1, 0.5: 1, 0.9: 2, 1: 2}
	for frac, want := range cases {
		if got := sliceAt(bounds, frac); got != want {
			t.Errorf("sliceAt(%v) = %d, want %d", frac, got, want)
		}
	}
}

func inked(img *image.NRGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.NRGBAAt(x, y).R < 0x80 {
				n++
			}
		}
	}
	return n
}

func TestRenderDrawsText(t *testing.T) {
	r := mustRenderer(t)
	if r.title != "สัดส่วนรายจ่าย" {
		t.Fatalf("unexpected title %q", r.title)
	}
	img, err := r.draw([]core.CategoryAmount{{Name: "ข้าว", Amount: core.NewTotal(5000)}})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	// legend text right of the swatch: "100.0%  50.00  ข้าว"
	if inked(img, image.Rect(500, 50, defaultWidth, 76)) == 0 {
		t.Fatal("legend label is blank")
	}
	if r.font.Thai && inked(img, image.Rect(15, 5, 300, 36)) == 0 {
		t.Fatalf("title is blank with Thai font %s", r.font.Path)
	}
}

func TestLoadFontRejectsNonThaiFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFont(path); !errors.Is(err, ErrNoThaiGlyphs) {
		t.Fatalf("expected ErrNoThaiGlyphs, got %v", err)
	}
}

func TestLoadFontErrors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.ttf")
	if err := os.WriteFile(junk, []byte("not a font"), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{junk, filepath.Join(dir, "missing.ttf")} {
		if _, err := LoadFont(path); err == nil {
			t.Fatalf("%s: expected error", path)
		}
	}
}

func TestFontCovers(t *testing.T) {
	sf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	f := &Font{sfont: sf}
	if !f.Covers("food 50.00") {
		t.Fatal("latin text should be covered")
	}
	if f.Covers("ข้าว") {
		t.Fatal("Go Regular has no Thai glyphs")
	}
}

func TestLoadFontPrefersInstalledThaiFont(t *testing.T) {
	f, err := LoadFont("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !f.Thai {
		t.Skip("no Thai font installed")
	}
	if !f.Covers("ข้าว เงินเดือน ค่าเช่า") {
		t.Fatalf("%s should cover Thai memos", f.Path)
	}
}
