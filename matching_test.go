package sprotty

import "testing"

func TestMatchModels(t *testing.T) {
	oldGraph := NewGraph("root")
	oldGraph.Children = []*Element{NewNode("stays", 0, 0), NewNode("goes", 10, 10)}
	oldRoot, err := NewRoot(oldGraph)
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}

	newGraph := NewGraph("root")
	newGraph.Children = []*Element{NewNode("stays", 50, 50), NewNode("appears", 20, 20)}
	newRoot, err := NewRoot(newGraph)
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}

	matches := MatchModels(oldRoot, newRoot)
	if len(matches) != 4 { // root, stays, goes, appears
		t.Fatalf("matches = %d, want 4", len(matches))
	}

	stays := matches["stays"]
	if stays.Left == nil || stays.Right == nil {
		t.Fatal("element present on both sides should have both halves")
	}
	if stays.Left.Position != Pt(0, 0) || stays.Right.Position != Pt(50, 50) {
		t.Errorf("matched positions = %+v / %+v", stays.Left.Position, stays.Right.Position)
	}
	if stays.LeftParentID != "root" || stays.RightParentID != "root" {
		t.Errorf("parent ids = %q / %q, want root/root", stays.LeftParentID, stays.RightParentID)
	}

	if m := matches["goes"]; m.Left == nil || m.Right != nil {
		t.Error("disappearing element should only have a left half")
	}
	if m := matches["appears"]; m.Left != nil || m.Right == nil {
		t.Error("appearing element should only have a right half")
	}
	if m := matches["root"]; m.LeftParentID != "" || m.RightParentID != "" {
		t.Error("root match should have no parent ids")
	}
}
