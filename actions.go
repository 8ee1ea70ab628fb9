package sprotty

// Kind tags of the built-in actions.
const (
	KindSelect            = "elementSelected"
	KindSelectAll         = "allSelected"
	KindMove              = "move"
	KindSetViewport       = "viewport"
	KindCenter            = "center"
	KindFitToScreen       = "fit"
	KindCollapseExpand    = "collapseExpand"
	KindCollapseExpandAll = "collapseExpandAll"
	KindHoverFeedback     = "hoverFeedback"
	KindSetBounds         = "setBounds"
	KindRequestModel      = "requestModel"
	KindSetModel          = "setModel"
	KindUpdateModel       = "updateModel"
	KindUndo              = "undo"
	KindRedo              = "redo"
)

func init() {
	RegisterAction(KindSelect, func() Action { return &SelectAction{} })
	RegisterAction(KindSelectAll, func() Action { return &SelectAllAction{} })
	RegisterAction(KindMove, func() Action { return &MoveAction{} })
	RegisterAction(KindSetViewport, func() Action { return &SetViewportAction{} })
	RegisterAction(KindCenter, func() Action { return &CenterAction{} })
	RegisterAction(KindFitToScreen, func() Action { return &FitToScreenAction{} })
	RegisterAction(KindCollapseExpand, func() Action { return &CollapseExpandAction{} })
	RegisterAction(KindCollapseExpandAll, func() Action { return &CollapseExpandAllAction{} })
	RegisterAction(KindHoverFeedback, func() Action { return &HoverFeedbackAction{} })
	RegisterAction(KindSetBounds, func() Action { return &SetBoundsAction{} })
	RegisterAction(KindRequestModel, func() Action { return &RequestModelAction{} })
	RegisterAction(KindSetModel, func() Action { return &SetModelAction{} })
	RegisterAction(KindUpdateModel, func() Action { return &UpdateModelAction{} })
	RegisterAction(KindUndo, func() Action { return &UndoAction{} })
	RegisterAction(KindRedo, func() Action { return &RedoAction{} })
}

// SelectAction changes the selection state of individual elements.
// Selected elements are raised above their siblings; deselected elements
// keep their position in the paint order.
type SelectAction struct {
	SelectedIDs   []string `json:"selectedElementsIDs,omitempty"`
	DeselectedIDs []string `json:"deselectedElementsIDs,omitempty"`
}

func (*SelectAction) Kind() string { return KindSelect }

// SelectAllAction selects or deselects every selectable element.
type SelectAllAction struct {
	Select bool `json:"select"`
}

func (*SelectAllAction) Kind() string { return KindSelectAll }

// ElementMove describes the movement of one element. FromPosition is
// optional: when nil, the element's position at execution time is used,
// which hands a mid-animation element over without a jump.
type ElementMove struct {
	ElementID    string `json:"elementId"`
	FromPosition *Point `json:"fromPosition,omitempty"`
	ToPosition   Point  `json:"toPosition"`
}

// MoveAction repositions a set of elements, optionally animated.
type MoveAction struct {
	Moves   []ElementMove `json:"moves"`
	Animate bool          `json:"animate"`
}

func (*MoveAction) Kind() string { return KindMove }

// Viewport is a scroll position plus a zoom factor.
type Viewport struct {
	Scroll Point   `json:"scroll"`
	Zoom   float64 `json:"zoom"`
}

// SetViewportAction scrolls and zooms a root element, optionally
// animated.
type SetViewportAction struct {
	ElementID string   `json:"elementId"`
	Viewport  Viewport `json:"newViewport"`
	Animate   bool     `json:"animate"`
}

func (*SetViewportAction) Kind() string { return KindSetViewport }

// CenterAction scrolls so that the given elements (or the whole model if
// none are given) are centered in the canvas.
type CenterAction struct {
	ElementIDs []string `json:"elementIds,omitempty"`
	Animate    bool     `json:"animate"`
	RetainZoom bool     `json:"retainZoom"`
}

func (*CenterAction) Kind() string { return KindCenter }

// FitToScreenAction zooms and scrolls so that the given elements (or the
// whole model) fill the canvas, leaving Padding around them. MaxZoom
// caps the zoom factor when positive.
type FitToScreenAction struct {
	ElementIDs []string `json:"elementIds,omitempty"`
	Padding    float64  `json:"padding"`
	MaxZoom    float64  `json:"maxZoom,omitempty"`
	Animate    bool     `json:"animate"`
}

func (*FitToScreenAction) Kind() string { return KindFitToScreen }

// CollapseExpandAction expands and collapses individual elements.
type CollapseExpandAction struct {
	ExpandIDs   []string `json:"expandIds,omitempty"`
	CollapseIDs []string `json:"collapseIds,omitempty"`
}

func (*CollapseExpandAction) Kind() string { return KindCollapseExpand }

// CollapseExpandAllAction expands or collapses every expandable element.
type CollapseExpandAllAction struct {
	Expand bool `json:"expand"`
}

func (*CollapseExpandAllAction) Kind() string { return KindCollapseExpandAll }

// HoverFeedbackAction toggles mouseover feedback on an element. It is
// transient system feedback and never enters the undo history.
type HoverFeedbackAction struct {
	MouseoverID string `json:"mouseoverElement"`
	MouseIsOver bool   `json:"mouseIsOver"`
}

func (*HoverFeedbackAction) Kind() string { return KindHoverFeedback }

// ElementAndBounds carries new bounds for one element. NewPosition is
// optional; bounds passes that only measure sizes leave it nil.
type ElementAndBounds struct {
	ElementID   string `json:"elementId"`
	NewPosition *Point `json:"newPosition,omitempty"`
	NewSize     Size   `json:"newSize"`
}

// SetBoundsAction applies measured element bounds, e.g. from a label
// measurement pass. Like hover feedback it stays out of the undo
// history.
type SetBoundsAction struct {
	Bounds []ElementAndBounds `json:"bounds"`
}

func (*SetBoundsAction) Kind() string { return KindSetBounds }

// RequestModelAction asks for the current model; it is answered with a
// SetModelAction whose ResponseID echoes the RequestID.
type RequestModelAction struct {
	RequestID string `json:"requestId,omitempty"`
}

func (*RequestModelAction) Kind() string { return KindRequestModel }

// SetModelAction replaces the model outright. The undo and redo
// histories are cleared: a new model is a new history baseline.
type SetModelAction struct {
	Model      *Element `json:"newRoot"`
	ResponseID string   `json:"responseId,omitempty"`
}

func (*SetModelAction) Kind() string { return KindSetModel }

// UpdateModelAction morphs the model into a new one, matching elements
// by id: matched elements move to their new positions, appearing ones
// fade in, disappearing ones fade out. Undoing plays the reverse morph.
type UpdateModelAction struct {
	Model   *Element `json:"newRoot"`
	Animate bool     `json:"animate"`
}

func (*UpdateModelAction) Kind() string { return KindUpdateModel }

// UndoAction undoes the latest undoable command.
type UndoAction struct{}

func (*UndoAction) Kind() string { return KindUndo }

// RedoAction redoes the latest undone command.
type RedoAction struct{}

func (*RedoAction) Kind() string { return KindRedo }
