package sprotty

// Index maps element ids to elements for constant-time lookup. A model's
// index is maintained incrementally: attaching a subtree registers every
// element in it, detaching unregisters them.
//
// An Index is not safe for concurrent use. The command stack owns the
// model on a single goroutine and serializes all access to it.
type Index struct {
	byID map[string]*Element
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[string]*Element)}
}

// Add registers the element under its id. Adding an id that is already
// present returns a [DuplicateIDError] and leaves the index unchanged.
func (ix *Index) Add(e *Element) error {
	if e == nil {
		return ErrNilElement
	}
	if _, dup := ix.byID[e.ID]; dup {
		return &DuplicateIDError{ID: e.ID}
	}
	ix.byID[e.ID] = e
	return nil
}

// Remove unregisters the element. Removing an element that is not in the
// index (or whose id now maps to a different element) is a no-op.
func (ix *Index) Remove(e *Element) {
	if e == nil {
		return
	}
	if cur, ok := ix.byID[e.ID]; ok && cur == e {
		delete(ix.byID, e.ID)
	}
}

// ByID returns the element registered under id, or nil.
func (ix *Index) ByID(id string) *Element {
	return ix.byID[id]
}

// All returns every indexed element in unspecified order.
func (ix *Index) All() []*Element {
	all := make([]*Element, 0, len(ix.byID))
	for _, e := range ix.byID {
		all = append(all, e)
	}
	return all
}

// Len returns the number of indexed elements.
func (ix *Index) Len() int {
	return len(ix.byID)
}

// addTree registers e and its whole subtree. The ids are validated
// against the index and against each other before anything is added, so
// a duplicate leaves the index unchanged.
func (ix *Index) addTree(e *Element) error {
	var batch []*Element
	seen := make(map[string]struct{})
	var err error
	e.Walk(func(el *Element) {
		if err != nil {
			return
		}
		if _, dup := ix.byID[el.ID]; dup {
			err = &DuplicateIDError{ID: el.ID}
			return
		}
		if _, dup := seen[el.ID]; dup {
			err = &DuplicateIDError{ID: el.ID}
			return
		}
		seen[el.ID] = struct{}{}
		batch = append(batch, el)
	})
	if err != nil {
		return err
	}
	for _, el := range batch {
		ix.byID[el.ID] = el
	}
	return nil
}

// removeTree unregisters e and its whole subtree.
func (ix *Index) removeTree(e *Element) {
	e.Walk(func(el *Element) {
		ix.Remove(el)
	})
}
