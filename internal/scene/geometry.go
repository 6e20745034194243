package scene

import (
	"math"
	"strconv"

	"github.com/msalah0e/ontomap/internal/svg"
)

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the extent of a node shape.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// floatAttr reads a numeric attribute; unset or malformed values read as 0.
func floatAttr(p Primitive, name svg.Attr) float64 {
	v, err := strconv.ParseFloat(p.Attribute(name), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
