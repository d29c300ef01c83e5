package embed

// Rect is an axis-aligned box in player pixels.
type Rect struct {
	X, Y, W, H int
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// ShieldLayout places click-absorbing strips along the player edges.
type ShieldLayout struct {
	Regions []Rect
	Center  Rect
}

// Shield lays out edge strips of the given thickness over a w×h player. The
// thickness is reduced so that a central playback area always remains, and
// no strip overlaps it.
func Shield(w, h, edge int) ShieldLayout {
	if w <= 0 || h <= 0 {
		return ShieldLayout{}
	}

	edge = min(edge, (min(w, h)-1)/2)
	if edge <= 0 {
		return ShieldLayout{Center: Rect{W: w, H: h}}
	}

	return ShieldLayout{
		Regions: []Rect{
			{X: 0, Y: 0, W: w, H: edge},
			{X: 0, Y: h - edge, W: w, H: edge},
			{X: 0, Y: edge, W: edge, H: h - 2*edge},
			{X: w - edge, Y: edge, W: edge, H: h - 2*edge},
		},
		Center: Rect{X: edge, Y: edge, W: w - 2*edge, H: h - 2*edge},
	}
}
