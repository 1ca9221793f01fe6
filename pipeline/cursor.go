package pipeline

import "github.com/kbukum/stagekit/artifact"

// Cursor is a forward-only, resettable iterator over a fixed snapshot of
// a pipeline's artifacts. Cursors are independent: each call to
// Pipeline.Cursor returns a fresh one, and a cursor must not be shared
// across goroutines.
type Cursor struct {
	items []artifact.Artifact
	index int
}

// Cursor returns a new cursor positioned before the first artifact.
func (p *Pipeline) Cursor() *Cursor {
	return &Cursor{items: p.Artifacts(), index: -1}
}

// Next advances the cursor and reports whether a current artifact is
// available.
func (c *Cursor) Next() bool {
	if c.index+1 >= len(c.items) {
		return false
	}
	c.index++
	return true
}

// Current returns the artifact at the cursor position. It is only valid
// after Next has returned true.
func (c *Cursor) Current() artifact.Artifact {
	return c.items[c.index]
}

// Reset repositions the cursor before the first artifact.
func (c *Cursor) Reset() {
	c.index = -1
}
