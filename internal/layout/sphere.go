package layout

import (
	"math"

	"github.com/xxxsen/skillmap/internal/model"
)

const DefaultRadius = 1.0

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// FibonacciSphere spreads n points evenly over a sphere using the golden-angle
// spiral. Y runs from +radius down to -radius.
func FibonacciSphere(n int, radius float64) []Point {
	if n <= 0 {
		return []Point{}
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	if n == 1 {
		return []Point{{X: radius}}
	}
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		y := 1 - 2*float64(i)/float64(n-1)
		r := math.Sqrt(math.Max(0, 1-y*y))
		theta := goldenAngle * float64(i)
		points = append(points, Point{
			X: math.Cos(theta) * r * radius,
			Y: y * radius,
			Z: math.Sin(theta) * r * radius,
		})
	}
	return points
}

func PositionNodes(nodes []model.SkillNode, radius float64) []model.PositionedNode {
	points := FibonacciSphere(len(nodes), radius)
	out := make([]model.PositionedNode, 0, len(nodes))
	for i, node := range nodes {
		p := points[i]
		out = append(out, model.PositionedNode{SkillNode: node, X: p.X, Y: p.Y, Z: p.Z})
	}
	return out
}
