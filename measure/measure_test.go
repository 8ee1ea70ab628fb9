package measure

import (
	"errors"
	"strings"
	"testing"

	sprotty "github.com/tortmayr/sprotty-1"
)

var (
	_ Measurer = (*Basic)(nil)
	_ Measurer = (*Shaped)(nil)
)

// labeledModel builds a graph with one labeled node, one bare node and
// one edge. Only the label carries display text.
func labeledModel(t *testing.T) *sprotty.Root {
	t.Helper()
	graph := sprotty.NewGraph("root")
	n0 := sprotty.NewNode("n0", 10, 20)
	n0.Size = sprotty.Size{Width: 50, Height: 50}
	n0.Children = append(n0.Children, sprotty.NewLabel("l0", "hello"))
	graph.Children = append(graph.Children, n0, sprotty.NewNode("n1", 100, 0), sprotty.NewEdge("e0", "n0", "n1"))
	root, err := sprotty.NewRoot(graph)
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}
	return root
}

// The bitmap face is 7x13, so measuring at size 13 uses its native
// metrics and scaling is exact.
func TestBasicMeasure(t *testing.T) {
	tests := []struct {
		name string
		text string
		size float64
		want sprotty.Size
	}{
		{"native size", "hello", 13, sprotty.Size{Width: 35, Height: 13}},
		{"scaled up", "hello", 26, sprotty.Size{Width: 70, Height: 26}},
		{"single char", "x", 13, sprotty.Size{Width: 7, Height: 13}},
		{"empty text", "", 13, sprotty.Size{}},
		{"zero size", "hello", 0, sprotty.Size{}},
	}
	var m Basic
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Measure(tt.text, tt.size)
			if err != nil {
				t.Fatalf("Measure(%q, %v): %v", tt.text, tt.size, err)
			}
			if got != tt.want {
				t.Errorf("Measure(%q, %v) = %v, want %v", tt.text, tt.size, got, tt.want)
			}
		})
	}
}

func TestComputeBoundsMeasuresLabels(t *testing.T) {
	root := labeledModel(t)

	action, err := ComputeBounds(root, &Basic{}, WithFontSize(13))
	if err != nil {
		t.Fatalf("ComputeBounds: %v", err)
	}
	if action == nil {
		t.Fatal("ComputeBounds returned nil action, want one entry")
	}
	if len(action.Bounds) != 1 {
		t.Fatalf("len(action.Bounds) = %d, want 1", len(action.Bounds))
	}

	got := action.Bounds[0]
	if got.ElementID != "l0" {
		t.Errorf("ElementID = %q, want %q", got.ElementID, "l0")
	}
	if got.NewPosition != nil {
		t.Errorf("NewPosition = %v, want nil", got.NewPosition)
	}
	want := sprotty.Size{Width: 35, Height: 13}
	if got.NewSize != want {
		t.Errorf("NewSize = %v, want %v", got.NewSize, want)
	}
}

func TestComputeBoundsSkipsUpToDateLabels(t *testing.T) {
	root := labeledModel(t)
	root.Index().ByID("l0").Size = sprotty.Size{Width: 35, Height: 13}

	action, err := ComputeBounds(root, &Basic{}, WithFontSize(13))
	if err != nil {
		t.Fatalf("ComputeBounds: %v", err)
	}
	if action != nil {
		t.Errorf("ComputeBounds = %+v, want nil when all sizes are current", action)
	}
}

// Edges cannot carry bounds, so text on them never produces an entry.
func TestComputeBoundsSkipsUnsizedTypes(t *testing.T) {
	root := labeledModel(t)
	root.Index().ByID("e0").Text = "edge text"
	root.Index().ByID("l0").Size = sprotty.Size{Width: 35, Height: 13}

	action, err := ComputeBounds(root, &Basic{}, WithFontSize(13))
	if err != nil {
		t.Fatalf("ComputeBounds: %v", err)
	}
	if action != nil {
		t.Errorf("ComputeBounds = %+v, want nil", action)
	}
}

func TestComputeBoundsNilInputs(t *testing.T) {
	root := labeledModel(t)
	if action, err := ComputeBounds(nil, &Basic{}); action != nil || err != nil {
		t.Errorf("ComputeBounds(nil, m) = %v, %v, want nil, nil", action, err)
	}
	if action, err := ComputeBounds(root, nil); action != nil || err != nil {
		t.Errorf("ComputeBounds(root, nil) = %v, %v, want nil, nil", action, err)
	}
}

type failingMeasurer struct {
	err error
}

func (f *failingMeasurer) Measure(string, float64) (sprotty.Size, error) {
	return sprotty.Size{}, f.err
}

func TestComputeBoundsPropagatesMeasureErrors(t *testing.T) {
	root := labeledModel(t)
	sentinel := errors.New("no glyphs")

	action, err := ComputeBounds(root, &failingMeasurer{err: sentinel})
	if action != nil {
		t.Errorf("action = %+v, want nil on error", action)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapped sentinel", err)
	}
	if !strings.Contains(err.Error(), `"l0"`) {
		t.Errorf("err = %q, want the failing label id", err)
	}
}
