// Package drag turns drag gestures into todo reassignments.
//
// Two input paths feed one Controller. The pointer path names its targets
// directly (Over, Leave, Drop); the hit-test path only knows a screen cell
// (Move, End) and resolves it against a HitMap of day and category zones.
// Either way a completed drop yields at most one Mutation and leaves no
// highlight behind.
package drag

// Source is the todo being dragged.
type Source struct {
	TodoID int64
	Title  string
	From   Target
}

// Controller tracks one drag at a time.
type Controller struct {
	source *Source
	hover  Target
}

// Begin starts dragging src. It returns false, leaving the current drag
// untouched, if a drag is already in progress or src has no todo.
func (c *Controller) Begin(src Source) bool {
	if c.source != nil || src.TodoID <= 0 {
		return false
	}
	s := src
	c.source = &s
	c.hover = Target{}
	return true
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.source != nil }

// Source returns the dragged todo.
func (c *Controller) Source() (Source, bool) {
	if c.source == nil {
		return Source{}, false
	}
	return *c.source, true
}

// Highlight returns the hovered target, or the zero Target.
func (c *Controller) Highlight() Target { return c.hover }

// Highlighted reports whether t is the hovered target.
func (c *Controller) Highlighted(t Target) bool {
	return c.source != nil && c.hover.Valid() && c.hover == t
}

// Over marks t as the hovered target.
func (c *Controller) Over(t Target) {
	if c.source == nil {
		return
	}
	if !t.Valid() {
		c.hover = Target{}
		return
	}
	c.hover = t
}

// Leave clears the hover highlight without ending the drag.
func (c *Controller) Leave() { c.hover = Target{} }

// Drop ends the drag on t. It returns the mutation to issue, or false when
// nothing was dragged or t is not a drop target.
func (c *Controller) Drop(t Target) (Mutation, bool) {
	src := c.source
	c.reset()
	if src == nil {
		return Mutation{}, false
	}
	return MutationFor(src.TodoID, t)
}

// DropHovered drops onto the currently highlighted target.
func (c *Controller) DropHovered() (Mutation, bool) { return c.Drop(c.hover) }

// Cancel abandons the drag.
func (c *Controller) Cancel() { c.reset() }

// Move resolves (x, y) against hits and highlights whatever is underneath.
func (c *Controller) Move(hits *HitMap, x, y int) {
	if c.source == nil {
		return
	}
	t, ok := hits.Resolve(x, y)
	if !ok {
		c.hover = Target{}
		return
	}
	c.hover = t
}

// End finishes a hit-tested drag at (x, y).
func (c *Controller) End(hits *HitMap, x, y int) (Mutation, bool) {
	t, _ := hits.Resolve(x, y)
	return c.Drop(t)
}

func (c *Controller) reset() {
	c.source = nil
	c.hover = Target{}
}
