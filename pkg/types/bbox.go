package types

import "fmt"

// BBox is an axis-aligned bounding box in image coordinates, with the origin
// at the top-left corner so Y grows downward.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Valid reports whether the box has positive width and height.
func (b BBox) Valid() bool {
	return b.X2 > b.X1 && b.Y2 > b.Y1
}

// Width returns the box width.
func (b BBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the box height.
func (b BBox) Height() float64 { return b.Y2 - b.Y1 }

// Area returns the box area, or 0 for a degenerate box.
func (b BBox) Area() float64 {
	if !b.Valid() {
		return 0
	}
	return b.Width() * b.Height()
}

// MidY returns the vertical midpoint, used for line grouping.
func (b BBox) MidY() float64 { return (b.Y1 + b.Y2) / 2 }

// Intersection returns the overlapping region of b and o. The zero BBox is
// returned when the boxes do not overlap.
func (b BBox) Intersection(o BBox) BBox {
	x1 := max(b.X1, o.X1)
	y1 := max(b.Y1, o.Y1)
	x2 := min(b.X2, o.X2)
	y2 := min(b.Y2, o.Y2)
	if x2 <= x1 || y2 <= y1 {
		return BBox{}
	}
	return BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Union returns the smallest box covering both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}

// IoU returns the intersection-over-union ratio of b and o in [0,1].
// Degenerate boxes yield 0.
func (b BBox) IoU(o BBox) float64 {
	inter := b.Intersection(o).Area()
	if inter == 0 {
		return 0
	}
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// String returns a compact debug representation.
func (b BBox) String() string {
	return fmt.Sprintf("(%.1f,%.1f)-(%.1f,%.1f)", b.X1, b.Y1, b.X2, b.Y2)
}
