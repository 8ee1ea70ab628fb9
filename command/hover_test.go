package command

import (
	"testing"

	sprotty "github.com/tortmayr/sprotty-1"
)

func TestHoverFeedbackToggles(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)
	n0 := root.Index().ByID("n0")

	cmd := NewHoverFeedback(&sprotty.HoverFeedbackAction{MouseoverID: "n0", MouseIsOver: true})
	mustExecute(t, cmd, ctx)
	if !n0.Hover {
		t.Fatal("hover flag not set")
	}

	cmd.Undo(ctx)
	if n0.Hover {
		t.Error("undo kept the hover flag")
	}
	cmd.Redo(ctx)
	if !n0.Hover {
		t.Error("redo lost the hover flag")
	}
}

func TestHoverFeedbackRestoresPriorFlag(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)
	n0 := root.Index().ByID("n0")
	n0.Hover = true

	cmd := NewHoverFeedback(&sprotty.HoverFeedbackAction{MouseoverID: "n0", MouseIsOver: false})
	mustExecute(t, cmd, ctx)
	if n0.Hover {
		t.Fatal("mouse-out did not clear the flag")
	}
	cmd.Undo(ctx)
	if !n0.Hover {
		t.Error("undo did not restore the prior flag")
	}
}

func TestHoverFeedbackSkipsUnresolvableAndUnhoverable(t *testing.T) {
	root := testModel(t)
	ctx := testContext(t, root)
	l0 := root.Index().ByID("l0")

	cmd := NewHoverFeedback(&sprotty.HoverFeedbackAction{MouseoverID: "l0", MouseIsOver: true})
	mustExecute(t, cmd, ctx)
	if l0.Hover {
		t.Error("unhoverable element accepted feedback")
	}

	ghost := NewHoverFeedback(&sprotty.HoverFeedbackAction{MouseoverID: "ghost", MouseIsOver: true})
	mustExecute(t, ghost, ctx)
	ghost.Undo(ctx)
	ghost.Redo(ctx)
}
