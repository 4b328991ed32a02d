package imaging

import "math"

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Within reports whether a and b are strictly closer than d.
func Within(a, b Point, d float64) bool {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return dx*dx+dy*dy < d*d
}
