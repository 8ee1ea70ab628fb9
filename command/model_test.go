package command

import (
	"errors"
	"testing"
	"time"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/animation"
)

func TestSetModelInstallsNewRoot(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)

	tree := sprotty.NewGraph("fresh")
	tree.Children = append(tree.Children, sprotty.NewNode("m0", 5, 5))
	cmd := NewSetModel(&sprotty.SetModelAction{Model: tree})

	res := mustExecute(t, cmd, ctx)
	if res.Root == nil || res.Root.ID != "fresh" {
		t.Fatalf("installed root = %v", res.Root)
	}
	if res.Root.Index().ByID("m0") == nil {
		t.Error("new root's index not built")
	}

	if got := cmd.Undo(ctx); got.Root != root {
		t.Error("undo did not return the replaced root")
	}
	if got := cmd.Redo(ctx); got.Root != res.Root {
		t.Error("redo did not return the new root")
	}
}

func TestSetModelRejectsUnbuildableTrees(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)

	dup := sprotty.NewGraph("dup")
	dup.Children = append(dup.Children, sprotty.NewNode("x", 0, 0), sprotty.NewNode("x", 1, 1))
	_, err := NewSetModel(&sprotty.SetModelAction{Model: dup}).Execute(ctx)
	if err == nil {
		t.Fatal("duplicate ids accepted")
	}
	var dupErr *sprotty.DuplicateIDError
	if !errors.As(err, &dupErr) || dupErr.ID != "x" {
		t.Errorf("error = %v, want DuplicateIDError for x", err)
	}

	if _, err := NewSetModel(&sprotty.SetModelAction{}).Execute(ctx); err == nil {
		t.Error("nil model accepted")
	}
}

func TestUpdateModelSnapsWithoutAnimate(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)

	tree := sprotty.NewGraph("root")
	tree.Children = append(tree.Children, sprotty.NewNode("n0", 300, 300))
	cmd := NewUpdateModel(&sprotty.UpdateModelAction{Model: tree})

	res := mustExecute(t, cmd, ctx)
	if res.Animation != nil {
		t.Error("snap update started an animation")
	}
	if got := res.Root.Index().ByID("n0").Position; got != sprotty.Pt(300, 300) {
		t.Errorf("n0 = %+v, want (300,300)", got)
	}

	if got := cmd.Undo(ctx); got.Root != root {
		t.Error("undo did not reinstall the old root")
	}
	if got := cmd.Redo(ctx); got.Root != res.Root {
		t.Error("redo did not reinstall the new root")
	}
}

func TestUpdateModelSnapsAcrossRootIDs(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)

	tree := sprotty.NewGraph("different")
	cmd := NewUpdateModel(&sprotty.UpdateModelAction{Model: tree, Animate: true})
	res := mustExecute(t, cmd, ctx)
	if res.Animation != nil {
		t.Error("morph across different root ids")
	}
}

// The morph's first frame must already be prepared when Execute returns:
// matched elements pinned at their old positions, appearing ones
// transparent, and disappearing ones lingering as copies.
func TestUpdateModelMorphPreparesFirstFrame(t *testing.T) {
	root := testModel(t)
	sched := animation.NewScheduler(animation.WithPost(func(func()) {}))
	t.Cleanup(sched.Close)
	ctx := &Context{
		Root:      root,
		Duration:  time.Hour,
		Scheduler: sched,
		BuildRoot: sprotty.NewRoot,
		Zoom:      DefaultZoomLimits,
	}

	tree := sprotty.NewGraph("root")
	moved := sprotty.NewNode("n0", 300, 300)
	appearing := sprotty.NewNode("n3", 50, 50)
	tree.Children = append(tree.Children, moved, appearing)

	cmd := NewUpdateModel(&sprotty.UpdateModelAction{Model: tree, Animate: true})
	res := mustExecute(t, cmd, ctx)
	if res.Animation == nil {
		t.Fatal("morph did not animate")
	}

	if moved.Position != sprotty.Pt(0, 0) {
		t.Errorf("moved element not pinned at its old position: %+v", moved.Position)
	}
	if appearing.Opacity != 0 {
		t.Errorf("appearing element opacity = %v, want 0", appearing.Opacity)
	}
	ghost := res.Root.Index().ByID("n1")
	if ghost == nil {
		t.Fatal("no fade-out copy for the removed element")
	}
	if ghost.Parent() != res.Root.Element {
		t.Error("fade-out copy attached under the wrong parent")
	}
}

func TestUpdateModelMorphCompletesExactly(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)

	tree := sprotty.NewGraph("root")
	tree.Children = append(tree.Children,
		sprotty.NewNode("n0", 300, 300),
		sprotty.NewNode("n3", 50, 50),
	)
	cmd := NewUpdateModel(&sprotty.UpdateModelAction{Model: tree, Animate: true})

	res := mustExecute(t, cmd, ctx)
	if res.Animation == nil || res.Animation.State() != animation.Complete {
		t.Fatal("zero-duration morph did not complete")
	}
	newRoot := res.Root
	if got := newRoot.Index().ByID("n0").Position; got != sprotty.Pt(300, 300) {
		t.Errorf("moved element = %+v, want exactly (300,300)", got)
	}
	if got := newRoot.Index().ByID("n3").Opacity; got != 1 {
		t.Errorf("faded-in opacity = %v, want exactly 1", got)
	}
	if newRoot.Index().ByID("n1") != nil {
		t.Error("fade-out copy still attached after the morph")
	}

	// Undo morphs back into the old model and leaves it pristine.
	ures := cmd.Undo(ctx)
	if ures.Root != root {
		t.Fatal("undo did not reinstall the old root")
	}
	if got := root.Index().ByID("n0").Position; got != sprotty.Pt(0, 0) {
		t.Errorf("n0 after undo = %+v, want exactly (0,0)", got)
	}
	n1 := root.Index().ByID("n1")
	if n1 == nil {
		t.Fatal("old model lost an element")
	}
	if n1.Opacity != 1 {
		t.Errorf("n1 opacity after undo = %v, want exactly 1", n1.Opacity)
	}
	if root.Index().ByID("n3") != nil {
		t.Error("appearing element leaked into the old model on undo")
	}
}
