package gazekit

// Cursor places a marker at a fixed distance along the gaze, turned to face
// the viewer. Unlike the tracker ray it ignores scene geometry.
type Cursor struct {
	Distance float64

	position    Vec3
	orientation Quat
	visible     bool
}

// NewCursor creates a cursor at the given distance from the gaze origin.
func NewCursor(distance float64) *Cursor {
	return &Cursor{Distance: distance, orientation: Quat{W: 1}}
}

// Update moves the cursor for this frame. When the sample is invalid the
// cursor falls back to fallbackDir (typically the head's forward) so it
// stays in view.
func (c *Cursor) Update(s GazeSample, fallbackDir Vec3) {
	dir := s.Direction
	if !s.Valid || !finite(dir) || dir.Len() == 0 {
		dir = fallbackDir
	}
	if !finite(dir) || dir.Len() == 0 || !finite(s.Origin) {
		c.visible = false
		return
	}
	dir = dir.Normalize()
	c.position = s.Origin.Add(dir.Mul(c.Distance))
	// Look at the viewer: forward points from the cursor back to the origin.
	c.orientation = LookRotation(dir.Mul(-1), Up)
	c.visible = true
}

// Position returns the cursor position.
func (c *Cursor) Position() Vec3 { return c.position }

// Orientation returns the cursor rotation.
func (c *Cursor) Orientation() Quat { return c.orientation }

// Visible reports whether the last update placed the cursor.
func (c *Cursor) Visible() bool { return c.visible }
