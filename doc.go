// Package sprotty provides the model, command, and animation core of a
// diagramming framework.
//
// # Overview
//
// sprotty keeps a diagram as a tree of typed elements (nodes, edges,
// labels) with an id index for constant-time lookup. All changes to the
// model go through commands executed on a command stack, which gives the
// diagram undo/redo, command merging (for example coalescing drag moves),
// and smooth animated transitions driven by a frame clock.
//
// # Quick Start
//
//	import (
//		sprotty "github.com/tortmayr/sprotty-1"
//		"github.com/tortmayr/sprotty-1/command"
//	)
//
//	// Build a small graph and wrap it in a root with an index.
//	graph := sprotty.NewGraph("graph")
//	graph.Children = []*sprotty.Element{
//		sprotty.NewNode("n0", 10, 10),
//		sprotty.NewNode("n1", 120, 40),
//	}
//	root, err := sprotty.NewRoot(graph)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute commands through a stack; undo and redo come for free.
//	stack := command.NewStack(root)
//	defer stack.Close()
//	<-stack.Execute(command.NewSelect(&sprotty.SelectAction{
//		SelectedIDs: []string{"n1"},
//	}))
//	<-stack.Undo()
//
// # Architecture
//
// The module is organized into:
//   - Root package: element tree, id index, geometry, actions
//   - command: command stack, dispatcher, and the built-in commands
//   - animation: frame scheduler and the tween implementations
//   - measure: text measurement for label bounds
//   - svg: diagram export
//   - server: WebSocket transport for remote actions
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Child positions are relative to their parent
package sprotty

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
