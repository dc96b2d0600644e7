package domain

import "errors"

// ErrUnknownValue is returned when a condition or a setter names a value the layer does not declare.
var ErrUnknownValue = errors.New("unknown value")

// ErrTargetNotFound is returned when a transition target is absent from its composite's node list.
var ErrTargetNotFound = errors.New("transition target not found")

// ErrRootNotComposite is returned when a layer has no composite root to run.
var ErrRootNotComposite = errors.New("layer root is not a composite state")
