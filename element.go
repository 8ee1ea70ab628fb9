package sprotty

import (
	"encoding/json"
	"slices"
)

// Element is a single node of the diagram model. The same type is both
// the wire schema and the live graph node: decoding a model produces a
// tree of elements, and attaching it to a [Root] wires parent links and
// the id index.
//
// Which fields are meaningful depends on the element's type tag: Text on
// labels, SourceID/TargetID/RoutingPoints on edges, Scroll/Zoom and
// CanvasBounds on roots. Positions are relative to the parent element.
type Element struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Text is the display text of label elements.
	Text string `json:"text,omitempty"`

	// SourceID and TargetID reference the endpoint elements of an edge.
	SourceID string `json:"sourceId,omitempty"`
	TargetID string `json:"targetId,omitempty"`

	// RoutingPoints are intermediate edge points in the parent's
	// coordinate system.
	RoutingPoints []Point `json:"routingPoints,omitempty"`

	Position Point `json:"position,omitzero"`
	Size     Size  `json:"size,omitzero"`

	Selected bool `json:"selected,omitempty"`
	Hover    bool `json:"hoverFeedback,omitempty"`
	Expanded bool `json:"expanded,omitempty"`

	// Opacity is in [0,1]. Fully opaque (1) is the default and is
	// omitted from JSON. A zero Opacity on a hand-built element is
	// normalized to 1 when the element is attached to a model.
	Opacity float64 `json:"opacity"`

	// Viewport state, meaningful on root elements only.
	Scroll       Point   `json:"scroll,omitzero"`
	Zoom         float64 `json:"zoom"`
	CanvasBounds Bounds  `json:"canvasBounds,omitzero"`

	Children []*Element `json:"children,omitempty"`

	parent *Element
	owner  *Root
}

// elementAlias strips Element's marshaling methods so the custom codec
// below can delegate to the generated one.
type elementAlias Element

// MarshalJSON encodes the element, omitting Opacity when it is the
// default 1 and Zoom when it is unset or 1.
func (e *Element) MarshalJSON() ([]byte, error) {
	aux := struct {
		*elementAlias
		Opacity *float64 `json:"opacity,omitempty"`
		Zoom    *float64 `json:"zoom,omitempty"`
	}{elementAlias: (*elementAlias)(e)}
	if e.Opacity != 1 {
		aux.Opacity = &e.Opacity
	}
	if e.Zoom != 0 && e.Zoom != 1 {
		aux.Zoom = &e.Zoom
	}
	return json.Marshal(aux)
}

// UnmarshalJSON decodes the element, defaulting a missing opacity to 1.
func (e *Element) UnmarshalJSON(data []byte) error {
	aux := (*elementAlias)(e)
	aux.Opacity = 1
	return json.Unmarshal(data, aux)
}

// Parent returns the parent element, or nil for roots and detached
// elements.
func (e *Element) Parent() *Element { return e.parent }

// Root returns the model root this element belongs to, or nil if the
// element is not attached to one.
func (e *Element) Root() *Root {
	top := e
	for top.parent != nil {
		top = top.parent
	}
	return top.owner
}

// Bounds returns the element's position and size in its parent's
// coordinate system.
func (e *Element) Bounds() Bounds {
	return NewBounds(e.Position, e.Size)
}

// AbsolutePosition returns the element's position in root coordinates.
func (e *Element) AbsolutePosition() Point {
	p := e.Position
	for a := e.parent; a != nil; a = a.parent {
		p = p.Add(a.Position)
	}
	return p
}

// AbsoluteBounds returns the element's bounds in root coordinates.
func (e *Element) AbsoluteBounds() Bounds {
	return NewBounds(e.AbsolutePosition(), e.Size)
}

// Walk calls fn for e and every descendant, depth-first in child order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Append attaches child and its subtree as the last child of e. If e
// belongs to a model, the subtree is added to the id index first; a
// duplicate id anywhere in the subtree returns a [DuplicateIDError] and
// leaves the model unchanged.
func (e *Element) Append(child *Element) error {
	if child == nil {
		return ErrNilElement
	}
	normalizeTree(child)
	if r := e.Root(); r != nil {
		if err := r.index.addTree(child); err != nil {
			return err
		}
	}
	child.parent = e
	e.Children = append(e.Children, child)
	return nil
}

// RemoveChild detaches child and its subtree from e and from the model's
// id index. Returns [ErrNotAChild] if child is not a direct child of e.
func (e *Element) RemoveChild(child *Element) error {
	i := slices.Index(e.Children, child)
	if i < 0 {
		return ErrNotAChild
	}
	if r := e.Root(); r != nil {
		r.index.removeTree(child)
	}
	e.Children = slices.Delete(e.Children, i, i+1)
	child.parent = nil
	return nil
}

// Detach removes e from its parent. Returns [ErrNotAChild] if e has no
// parent.
func (e *Element) Detach() error {
	if e.parent == nil {
		return ErrNotAChild
	}
	return e.parent.RemoveChild(e)
}

// Raise moves e to the last position among its siblings, which renders
// it on top of them. Roots and detached elements are left alone.
func (e *Element) Raise() {
	p := e.parent
	if p == nil {
		return
	}
	i := slices.Index(p.Children, e)
	if i < 0 || i == len(p.Children)-1 {
		return
	}
	p.Children = append(slices.Delete(p.Children, i, i+1), e)
}

// ChildIDs returns the ids of the direct children in order. The slice is
// freshly allocated, so it stays valid as a snapshot when the children
// are reordered later.
func (e *Element) ChildIDs() []string {
	ids := make([]string, len(e.Children))
	for i, c := range e.Children {
		ids[i] = c.ID
	}
	return ids
}

// RestoreChildOrder reorders the direct children to match the given id
// order. Children whose id is not listed keep their relative order after
// the listed ones.
func (e *Element) RestoreChildOrder(ids []string) {
	byID := make(map[string]*Element, len(e.Children))
	for _, c := range e.Children {
		byID[c.ID] = c
	}
	ordered := make([]*Element, 0, len(e.Children))
	for _, id := range ids {
		if c := byID[id]; c != nil {
			ordered = append(ordered, c)
			delete(byID, id)
		}
	}
	for _, c := range e.Children {
		if _, left := byID[c.ID]; left {
			ordered = append(ordered, c)
		}
	}
	e.Children = ordered
}

// Clone returns a deep copy of e and its subtree. The copy is detached:
// parent links inside the copy are wired, the copy itself has no parent
// and belongs to no model.
func (e *Element) Clone() *Element {
	c := *e
	c.parent = nil
	c.owner = nil
	c.RoutingPoints = slices.Clone(e.RoutingPoints)
	c.Children = make([]*Element, len(e.Children))
	for i, ch := range e.Children {
		cc := ch.Clone()
		cc.parent = &c
		c.Children[i] = cc
	}
	return &c
}

// normalizeTree wires parent links through the subtree and defaults zero
// opacities to fully opaque. Idempotent; called on every attach.
func normalizeTree(e *Element) {
	if e.Opacity == 0 {
		e.Opacity = 1
	}
	for _, c := range e.Children {
		c.parent = e
		normalizeTree(c)
	}
}

// NewGraph creates a root graph element with the default viewport.
func NewGraph(id string) *Element {
	return &Element{ID: id, Type: "graph", Opacity: 1, Zoom: 1}
}

// NewNode creates a node element at the given position.
func NewNode(id string, x, y float64) *Element {
	return &Element{ID: id, Type: "node", Opacity: 1, Position: Pt(x, y)}
}

// NewEdge creates an edge element connecting two elements by id.
func NewEdge(id, sourceID, targetID string) *Element {
	return &Element{ID: id, Type: "edge", Opacity: 1, SourceID: sourceID, TargetID: targetID}
}

// NewLabel creates a label element with the given text.
func NewLabel(id, text string) *Element {
	return &Element{ID: id, Type: "label", Opacity: 1, Text: text}
}
