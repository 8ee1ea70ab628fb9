package sprotty

import (
	"strings"
	"sync"
)

// Feature is a capability bit granted to element types. Commands consult
// features before touching an element, so a model can make individual
// types immovable, unselectable, and so on without changing any command.
type Feature uint16

const (
	// FeatureSelect allows an element to be selected.
	FeatureSelect Feature = 1 << iota
	// FeatureMove allows an element to be repositioned.
	FeatureMove
	// FeatureBounds allows an element's size to be set by a bounds pass.
	FeatureBounds
	// FeatureHover allows mouseover feedback on an element.
	FeatureHover
	// FeatureExpand allows an element to be collapsed and expanded.
	FeatureExpand
	// FeatureFade allows an element's opacity to be animated.
	FeatureFade
	// FeatureViewport marks a root whose scroll and zoom can be changed.
	FeatureViewport
)

var featureNames = []struct {
	bit  Feature
	name string
}{
	{FeatureSelect, "select"},
	{FeatureMove, "move"},
	{FeatureBounds, "bounds"},
	{FeatureHover, "hover"},
	{FeatureExpand, "expand"},
	{FeatureFade, "fade"},
	{FeatureViewport, "viewport"},
}

// String returns the set feature bits as a pipe-separated list.
func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range featureNames {
		if f&fn.bit != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

var (
	featureMu    sync.RWMutex
	typeFeatures = map[string]Feature{
		"graph": FeatureViewport,
		"node":  FeatureSelect | FeatureMove | FeatureBounds | FeatureHover | FeatureFade,
		"edge":  FeatureSelect | FeatureHover | FeatureFade,
		"label": FeatureBounds | FeatureFade,
		"comp":  FeatureBounds | FeatureFade,
	}
)

// RegisterType sets the feature set for an element type. Registering a
// type again replaces the previous feature set; feature tuning is
// configuration, so the last registration wins.
//
// A type tag may carry a subtype after a colon, e.g. "node:circle".
// Lookup falls back to the base type when the full tag is unregistered,
// so registering a subtype is only needed to deviate from its base.
func RegisterType(kind string, features Feature) {
	featureMu.Lock()
	defer featureMu.Unlock()
	typeFeatures[kind] = features
}

// FeaturesOf returns the feature set registered for the given type tag,
// falling back to the base type before the first colon. Unregistered
// types have no features.
func FeaturesOf(kind string) Feature {
	featureMu.RLock()
	defer featureMu.RUnlock()
	if f, ok := typeFeatures[kind]; ok {
		return f
	}
	if base, _, found := strings.Cut(kind, ":"); found {
		if f, ok := typeFeatures[base]; ok {
			return f
		}
	}
	return 0
}

// HasFeature reports whether the element's type grants the feature.
func (e *Element) HasFeature(f Feature) bool {
	return FeaturesOf(e.Type)&f != 0
}
