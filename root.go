package sprotty

// Root is a model root: the top element of a diagram together with its
// id index and a revision counter. The root element carries the viewport
// state (Scroll, Zoom, CanvasBounds).
//
// A Root is not safe for concurrent use; see [Index].
type Root struct {
	*Element

	index    *Index
	revision uint64
}

// EmptyRoot returns the placeholder model shown before a real model
// arrives: a single featureless element with id "EMPTY".
func EmptyRoot() *Root {
	r, err := NewRoot(&Element{ID: "EMPTY", Type: "none"})
	if err != nil {
		// A one-element tree cannot contain a duplicate id.
		panic(err)
	}
	return r
}

// NewRoot wraps a decoded or hand-built element tree in a model root.
// It wires parent links, defaults zero opacities to 1 and a zero root
// zoom to 1, and builds the id index. A duplicate id anywhere in the
// tree returns a [DuplicateIDError].
func NewRoot(el *Element) (*Root, error) {
	if el == nil {
		return nil, ErrNilElement
	}
	normalizeTree(el)
	if el.Zoom == 0 {
		el.Zoom = 1
	}
	ix := NewIndex()
	if err := ix.addTree(el); err != nil {
		return nil, err
	}
	r := &Root{Element: el, index: ix}
	el.owner = r
	return r, nil
}

// Index returns the model's id index.
func (r *Root) Index() *Index {
	return r.index
}

// Revision returns the model's revision counter. It increases whenever
// the command stack changes the model, including on animation frames.
func (r *Root) Revision() uint64 {
	return r.revision
}

// Touch bumps the revision counter. Called by the command stack after
// every mutation batch.
func (r *Root) Touch() {
	r.revision++
}
