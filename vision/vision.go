// Package vision turns a screenshot of the play field into a board.
package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/worker"
)

var errEmptyImage = errors.New("image has no pixels")

// GridReader splits an image into equal cells and marks a cell filled when
// its mean colour is far enough from black.
type GridReader struct {
	Rows      int
	Cols      int
	Margin    int
	Threshold float64
}

func NewGridReader(cfg *config.Config) *GridReader {
	return &GridReader{
		Rows:      cfg.GetInt(config.ConfigBoardRows),
		Cols:      cfg.GetInt(config.ConfigBoardCols),
		Margin:    cfg.GetInt(config.ConfigCellMargin),
		Threshold: cfg.GetFloat64(config.ConfigFillThreshold),
	}
}

// cellRect is the pixel rectangle of cell (i, j), relative to the image
// origin. Coordinates round half to even.
func (g *GridReader) cellRect(bounds image.Rectangle, i, j int) image.Rectangle {
	cw := float64(bounds.Dx()) / float64(g.Cols)
	ch := float64(bounds.Dy()) / float64(g.Rows)
	m := float64(g.Margin)
	x1 := m + float64(j)*cw
	y1 := m + float64(i)*ch
	x2 := x1 + cw - m
	y2 := y1 + ch - m
	r := image.Rect(
		int(math.RoundToEven(x1)), int(math.RoundToEven(y1)),
		int(math.RoundToEven(x2)), int(math.RoundToEven(y2)),
	).Add(bounds.Min)
	return r.Intersect(bounds)
}

// MeanColour returns the mean 8-bit R, G and B values over r.
func MeanColour(img image.Image, r image.Rectangle) []float64 {
	n := r.Dx() * r.Dy()
	if n <= 0 {
		return []float64{0, 0, 0}
	}
	chans := [3][]float64{make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			chans[0] = append(chans[0], float64(cr>>8))
			chans[1] = append(chans[1], float64(cg>>8))
			chans[2] = append(chans[2], float64(cb>>8))
		}
	}
	return []float64{
		stat.Mean(chans[0], nil),
		stat.Mean(chans[1], nil),
		stat.Mean(chans[2], nil),
	}
}

// Read builds a board from img.
func (g *GridReader) Read(img image.Image) (*board.GameBoard, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errEmptyImage
	}
	b := board.MakeBoard(g.Rows, g.Cols)
	for i := 0; i < g.Rows; i++ {
		for j := 0; j < g.Cols; j++ {
			mean := MeanColour(img, g.cellRect(bounds, i, j))
			if floats.Norm(mean, 2) > g.Threshold {
				b.Set(i, j, true)
			}
		}
	}
	log.Debug().Int("filled", b.NumFilled()).Int("cells", g.Rows*g.Cols).Msg("read-grid")
	return b, nil
}

// ReadFile decodes a PNG or JPEG screenshot and reads it.
func (g *GridReader) ReadFile(path string) (*board.GameBoard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return g.Read(img)
}

// FileSource reads the same screenshot file every cycle. Something outside
// the process keeps overwriting it with fresh captures.
type FileSource struct {
	Path   string
	Reader *GridReader
}

func (s *FileSource) Capture(ctx context.Context, c worker.Cycle) (*board.GameBoard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.First {
		log.Info().Str("path", s.Path).Msg("capturing-from-file")
	}
	return s.Reader.ReadFile(s.Path)
}
