package playback

// Point is an absolute screen position
type Point struct {
	X int
	Y int
}

// Interpolate returns steps evenly spaced positions from (x1, y1) towards (x2, y2).
// The start point is excluded and the last position is always (x2, y2).
func Interpolate(x1, y1, x2, y2, steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	points := make([]Point, 0, steps)
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		points = append(points, Point{
			X: int(float64(x1) + float64(x2-x1)*frac),
			Y: int(float64(y1) + float64(y2-y1)*frac),
		})
	}
	return points
}
