package chart

import "sync"

// Drawing is a chart bound to a canvas.
type Drawing struct {
	Canvas    string
	Chart     Bar
	Seq       uint64
	destroyed bool
}

// Destroyed reports whether the drawing was replaced.
func (d *Drawing) Destroyed() bool { return d.destroyed }

// Board keeps at most one live drawing per canvas. Rendering onto a canvas
// destroys whatever was there before; charts are never updated in place.
type Board struct {
	mu        sync.Mutex
	live      map[string]*Drawing
	seq       uint64
	destroyed int
}

func NewBoard() *Board {
	return &Board{live: make(map[string]*Drawing)}
}

// Render replaces the drawing on canvas with a fresh one for c.
func (b *Board) Render(canvas string, c Bar) *Drawing {
	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.live[canvas]; ok {
		prev.destroyed = true
		b.destroyed++
	}
	b.seq++
	d := &Drawing{Canvas: canvas, Chart: c, Seq: b.seq}
	b.live[canvas] = d
	return d
}

// Live returns the current drawing on canvas.
func (b *Board) Live(canvas string) (*Drawing, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.live[canvas]
	return d, ok
}

// Len is the number of canvases with a live drawing.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// DestroyedCount is how many drawings have been replaced so far.
func (b *Board) DestroyedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}

// Clear destroys every live drawing, e.g. on logout.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, d := range b.live {
		d.destroyed = true
		b.destroyed++
		delete(b.live, k)
	}
}
