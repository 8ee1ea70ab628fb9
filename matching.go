package sprotty

// Match pairs the occurrences of one element id in two models. Left is
// the element in the old model, Right in the new one; either side may be
// nil when the id only exists on the other side.
type Match struct {
	Left          *Element
	Right         *Element
	LeftParentID  string
	RightParentID string
}

// MatchModels pairs the elements of two models by id. Every id occurring
// in either model gets an entry: ids present on both sides have Left and
// Right set, ids present on one side only leave the other nil.
func MatchModels(left, right *Root) map[string]Match {
	matches := make(map[string]Match)
	collect := func(r *Root, setLeft bool) {
		if r == nil {
			return
		}
		r.Element.Walk(func(e *Element) {
			m := matches[e.ID]
			if setLeft {
				m.Left = e
				if e.parent != nil {
					m.LeftParentID = e.parent.ID
				}
			} else {
				m.Right = e
				if e.parent != nil {
					m.RightParentID = e.parent.ID
				}
			}
			matches[e.ID] = m
		})
	}
	collect(left, true)
	collect(right, false)
	return matches
}
