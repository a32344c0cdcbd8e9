package flavor

import "math"

// Ring is one concentric ring of the flavor wheel.
type Ring struct {
	Radius   float64
	Capacity int
}

// DefaultRings seats the 132 built-in flavors exactly.
var DefaultRings = []Ring{
	{Radius: 1, Capacity: 12},
	{Radius: 2, Capacity: 24},
	{Radius: 3, Capacity: 40},
	{Radius: 4, Capacity: 56},
}

// Position is where the i-th flavor sits on the wheel.
type Position struct {
	Index int     `json:"index"`
	Ring  int     `json:"ring"`
	Angle float64 `json:"angle"` // radians, counter-clockwise from +X
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Layout places count items on rings from the inside out. Items in a ring are
// evenly spaced; every odd ring is rotated by half a step so neighbours do
// not line up radially. The last ring absorbs whatever the others cannot hold.
func Layout(count int, rings []Ring) []Position {
	if count <= 0 || len(rings) == 0 {
		return []Position{}
	}

	out := make([]Position, 0, count)
	placed := 0
	for r, ring := range rings {
		n := min(ring.Capacity, count-placed)
		if r == len(rings)-1 {
			n = count - placed
		}
		if n <= 0 {
			continue
		}

		step := 2 * math.Pi / float64(n)
		offset := 0.0
		if r%2 == 1 {
			offset = step / 2
		}
		for k := range n {
			angle := offset + step*float64(k)
			out = append(out, Position{
				Index: placed + k,
				Ring:  r,
				Angle: angle,
				X:     ring.Radius * math.Cos(angle),
				Y:     ring.Radius * math.Sin(angle),
			})
		}
		placed += n
	}
	return out
}
