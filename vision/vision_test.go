package vision

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/worker"
)

const cellPx = 20

// render draws b the way the game does: black background, coloured blocks.
func render(b *board.GameBoard, fill color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Cols()*cellPx, b.Rows()*cellPx))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, color.Black)
		}
	}
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if !b.Filled(r, c) {
				continue
			}
			for y := r * cellPx; y < (r+1)*cellPx; y++ {
				for x := c * cellPx; x < (c+1)*cellPx; x++ {
					img.Set(x, y, fill)
				}
			}
		}
	}
	return img
}

func TestReadRenderedBoard(t *testing.T) {
	is := is.New(t)
	want := board.MustParse(board.ReferenceStack)
	g := NewGridReader(config.DefaultConfig())
	got, err := g.Read(render(want, color.RGBA{R: 200, G: 40, B: 40, A: 255}))
	is.NoErr(err)
	is.True(got.Equals(want))
}

func TestThreshold(t *testing.T) {
	is := is.New(t)
	want := board.MustParse(board.TwoPieces)
	g := NewGridReader(config.DefaultConfig())
	// A dim grey has norm sqrt(3)*40, about 69, below the default.
	got, err := g.Read(render(want, color.RGBA{R: 40, G: 40, B: 40, A: 255}))
	is.NoErr(err)
	is.Equal(got.NumFilled(), 0)

	g.Threshold = 50
	got, err = g.Read(render(want, color.RGBA{R: 40, G: 40, B: 40, A: 255}))
	is.NoErr(err)
	is.True(got.Equals(want))
}

func TestMeanColour(t *testing.T) {
	is := is.New(t)
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 100, G: 0, B: 50, A: 255})
	img.Set(1, 0, color.RGBA{R: 200, G: 0, B: 150, A: 255})
	is.Equal(MeanColour(img, img.Bounds()), []float64{150, 0, 100})
}

func TestFileSource(t *testing.T) {
	is := is.New(t)
	want := board.MustParse(board.ReferenceStack)
	path := filepath.Join(t.TempDir(), "main.png")
	f, err := os.Create(path)
	is.NoErr(err)
	is.NoErr(png.Encode(f, render(want, color.White)))
	is.NoErr(f.Close())

	src := &FileSource{Path: path, Reader: NewGridReader(config.DefaultConfig())}
	got, err := src.Capture(context.Background(), worker.Cycle{Number: 0, First: true})
	is.NoErr(err)
	is.True(got.Equals(want))

	src.Path = filepath.Join(t.TempDir(), "missing.png")
	_, err = src.Capture(context.Background(), worker.Cycle{Number: 1})
	is.True(err != nil)
}
