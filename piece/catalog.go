package piece

// Catalog maps each piece type to its rotation variants. A Catalog is built
// once and only read afterwards, so it can be shared freely.
type Catalog struct {
	variants [numPieceTypes][]Shape
}

// StandardCatalog returns the seven tetrominoes. Variant order is the
// rotation order a single rotate input cycles through.
func StandardCatalog() *Catalog {
	c := &Catalog{}
	c.variants[I] = shapes(
		[][]int{{1, 1, 1, 1}},
		[][]int{{1}, {1}, {1}, {1}},
	)
	c.variants[O] = shapes(
		[][]int{{1, 1}, {1, 1}},
	)
	c.variants[T] = shapes(
		[][]int{{0, 1, 0}, {1, 1, 1}},
		[][]int{{1, 0}, {1, 1}, {1, 0}},
		[][]int{{1, 1, 1}, {0, 1, 0}},
		[][]int{{0, 1}, {1, 1}, {0, 1}},
	)
	c.variants[S] = shapes(
		[][]int{{0, 1, 1}, {1, 1, 0}},
		[][]int{{1, 0}, {1, 1}, {0, 1}},
	)
	c.variants[Z] = shapes(
		[][]int{{1, 1, 0}, {0, 1, 1}},
		[][]int{{0, 1}, {1, 1}, {1, 0}},
	)
	c.variants[J] = shapes(
		[][]int{{1, 0, 0}, {1, 1, 1}},
		[][]int{{1, 1}, {1, 0}, {1, 0}},
		[][]int{{1, 1, 1}, {0, 0, 1}},
		[][]int{{0, 1}, {0, 1}, {1, 1}},
	)
	c.variants[L] = shapes(
		[][]int{{0, 0, 1}, {1, 1, 1}},
		[][]int{{1, 0}, {1, 0}, {1, 1}},
		[][]int{{1, 1, 1}, {1, 0, 0}},
		[][]int{{1, 1}, {0, 1}, {0, 1}},
	)
	return c
}

func shapes(tables ...[][]int) []Shape {
	out := make([]Shape, len(tables))
	for i, t := range tables {
		out[i] = NewShape(t)
	}
	return out
}

// Variants returns the rotation variants of a piece type. The caller must
// not modify the returned slice.
func (c *Catalog) Variants(p PieceType) []Shape {
	if int(p) >= len(c.variants) {
		return nil
	}
	return c.variants[p]
}

// NumRotations is the number of distinct rotation states of p.
func (c *Catalog) NumRotations(p PieceType) int {
	return len(c.Variants(p))
}

// Match finds the piece type and rotation index whose variant is exactly
// equal to s. ok is false when nothing matches, which happens routinely
// with noisy captures.
func (c *Catalog) Match(s Shape) (p PieceType, rotation int, ok bool) {
	for _, pt := range AllTypes {
		for idx, v := range c.variants[pt] {
			if v.Equals(s) {
				return pt, idx, true
			}
		}
	}
	return 0, 0, false
}
