package sprotty

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestElementJSONOpacityDefault(t *testing.T) {
	var e Element
	if err := json.Unmarshal([]byte(`{"id":"n1","type":"node"}`), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.Opacity != 1 {
		t.Errorf("missing opacity decoded to %v, want 1", e.Opacity)
	}

	var dim Element
	if err := json.Unmarshal([]byte(`{"id":"n1","type":"node","opacity":0.25}`), &dim); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if dim.Opacity != 0.25 {
		t.Errorf("opacity = %v, want 0.25", dim.Opacity)
	}
}

func TestElementJSONOmitsDefaults(t *testing.T) {
	e := NewNode("n1", 10, 20)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "opacity") {
		t.Errorf("default opacity serialized: %s", s)
	}
	if strings.Contains(s, "zoom") {
		t.Errorf("zero zoom serialized: %s", s)
	}
	if strings.Contains(s, "selected") {
		t.Errorf("false selected serialized: %s", s)
	}

	e.Opacity = 0.5
	data, err = json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"opacity":0.5`) {
		t.Errorf("non-default opacity missing: %s", data)
	}
}

func TestElementJSONRoundTrip(t *testing.T) {
	graph := NewGraph("root")
	graph.Scroll = Pt(5, 6)
	graph.Zoom = 2
	n := NewNode("n1", 10, 20)
	n.Size = Size{Width: 30, Height: 40}
	n.Selected = true
	graph.Children = append(graph.Children, n, NewEdge("e1", "n1", "n1"))

	data, err := json.Marshal(graph)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Element
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Zoom != 2 || got.Scroll != Pt(5, 6) {
		t.Errorf("viewport = zoom %v scroll %+v, want 2 and (5,6)", got.Zoom, got.Scroll)
	}
	if len(got.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(got.Children))
	}
	c := got.Children[0]
	if c.ID != "n1" || !c.Selected || c.Position != Pt(10, 20) || c.Opacity != 1 {
		t.Errorf("child round-trip mismatch: %+v", c)
	}
	if got.Children[1].SourceID != "n1" {
		t.Errorf("edge sourceId = %q, want n1", got.Children[1].SourceID)
	}
}

func buildTestRoot(t *testing.T) *Root {
	t.Helper()
	graph := NewGraph("root")
	graph.Children = []*Element{
		NewNode("n0", 0, 0),
		NewNode("n1", 100, 0),
		NewNode("n2", 200, 0),
	}
	root, err := NewRoot(graph)
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}
	return root
}

func TestAppendMaintainsIndexAndParents(t *testing.T) {
	root := buildTestRoot(t)
	child := NewNode("n3", 1, 2)
	grand := NewLabel("l1", "hi")
	child.Children = append(child.Children, grand)

	if err := root.Element.Append(child); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if root.Index().ByID("n3") != child {
		t.Error("appended element not indexed")
	}
	if root.Index().ByID("l1") != grand {
		t.Error("appended subtree not indexed")
	}
	if grand.Parent() != child || child.Parent() != root.Element {
		t.Error("parent links not wired on append")
	}
	if grand.Root() != root {
		t.Error("Root() lookup failed for appended descendant")
	}
}

func TestRemoveChildDetachesSubtree(t *testing.T) {
	root := buildTestRoot(t)
	n1 := root.Index().ByID("n1")
	if err := root.Element.RemoveChild(n1); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if root.Index().ByID("n1") != nil {
		t.Error("removed element still indexed")
	}
	if n1.Parent() != nil {
		t.Error("removed element keeps its parent link")
	}
	if err := root.Element.RemoveChild(n1); err != ErrNotAChild {
		t.Errorf("second remove = %v, want ErrNotAChild", err)
	}
}

func TestRaise(t *testing.T) {
	root := buildTestRoot(t)
	n0 := root.Index().ByID("n0")

	n0.Raise()
	want := []string{"n1", "n2", "n0"}
	if got := root.Element.ChildIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("after raise: %v, want %v", got, want)
	}

	// Raising the top element changes nothing.
	n0.Raise()
	if got := root.Element.ChildIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("raise of top element reordered: %v", got)
	}
}

func TestRestoreChildOrder(t *testing.T) {
	root := buildTestRoot(t)
	snapshot := root.Element.ChildIDs()

	root.Index().ByID("n0").Raise()
	root.Index().ByID("n1").Raise()
	root.Element.RestoreChildOrder(snapshot)

	if got := root.Element.ChildIDs(); !reflect.DeepEqual(got, snapshot) {
		t.Errorf("restored order = %v, want %v", got, snapshot)
	}
}

func TestAbsolutePosition(t *testing.T) {
	graph := NewGraph("root")
	outer := NewNode("outer", 10, 20)
	inner := NewNode("inner", 1, 2)
	outer.Children = append(outer.Children, inner)
	graph.Children = append(graph.Children, outer)
	if _, err := NewRoot(graph); err != nil {
		t.Fatalf("NewRoot: %v", err)
	}

	if got := inner.AbsolutePosition(); got != Pt(11, 22) {
		t.Errorf("AbsolutePosition = %+v, want (11,22)", got)
	}
	if got := inner.AbsoluteBounds(); got.Position() != Pt(11, 22) {
		t.Errorf("AbsoluteBounds position = %+v, want (11,22)", got.Position())
	}
}

func TestClone(t *testing.T) {
	root := buildTestRoot(t)
	n1 := root.Index().ByID("n1")
	n1.Children = append(n1.Children, NewLabel("l1", "text"))

	c := root.Element.Clone()
	if c.Parent() != nil || c.Root() != nil {
		t.Error("clone should be detached")
	}
	if len(c.Children) != 3 {
		t.Fatalf("clone children = %d, want 3", len(c.Children))
	}
	if c.Children[1] == n1 {
		t.Error("clone shares child pointers with the original")
	}
	if c.Children[1].Children[0].Text != "text" {
		t.Error("clone lost nested content")
	}
	if c.Children[1].Children[0].Parent() != c.Children[1] {
		t.Error("clone parent links not wired")
	}

	// Mutating the clone must not touch the original.
	c.Children[0].Position = Pt(999, 999)
	if root.Index().ByID("n0").Position == Pt(999, 999) {
		t.Error("clone aliases original positions")
	}
}

func TestNewRootNormalizes(t *testing.T) {
	graph := &Element{ID: "root", Type: "graph"}
	graph.Children = []*Element{{ID: "n1", Type: "node"}}
	root, err := NewRoot(graph)
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}
	if root.Zoom != 1 {
		t.Errorf("zero zoom normalized to %v, want 1", root.Zoom)
	}
	if root.Children[0].Opacity != 1 {
		t.Errorf("zero opacity normalized to %v, want 1", root.Children[0].Opacity)
	}
	if root.Children[0].Parent() != root.Element {
		t.Error("parent links not wired by NewRoot")
	}
}

func TestRootRevision(t *testing.T) {
	root := buildTestRoot(t)
	if root.Revision() != 0 {
		t.Errorf("Revision() = %d, want 0", root.Revision())
	}
	root.Touch()
	root.Touch()
	if root.Revision() != 2 {
		t.Errorf("Revision() = %d, want 2", root.Revision())
	}
}

func TestFeatureLookup(t *testing.T) {
	node := NewNode("n", 0, 0)
	if !node.HasFeature(FeatureSelect) || !node.HasFeature(FeatureMove) {
		t.Error("node should be selectable and movable by default")
	}
	if node.HasFeature(FeatureExpand) {
		t.Error("node should not be expandable by default")
	}

	// Subtypes fall back to the base type.
	circle := &Element{ID: "c", Type: "node:circle", Opacity: 1}
	if !circle.HasFeature(FeatureMove) {
		t.Error("subtype should inherit base type features")
	}

	RegisterType("node:pinned", FeatureSelect)
	pinned := &Element{ID: "p", Type: "node:pinned", Opacity: 1}
	if pinned.HasFeature(FeatureMove) {
		t.Error("registered subtype should override base features")
	}

	label := NewLabel("l", "x")
	if label.HasFeature(FeatureSelect) {
		t.Error("label should not be selectable")
	}
	if !label.HasFeature(FeatureBounds) {
		t.Error("label should accept measured bounds")
	}
}

func TestFeatureString(t *testing.T) {
	f := FeatureSelect | FeatureMove
	if got := f.String(); got != "select|move" {
		t.Errorf("String() = %q, want select|move", got)
	}
	if got := Feature(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
}
