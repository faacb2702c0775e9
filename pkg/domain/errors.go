package domain

import "errors"

// ErrUnknownNode is returned when an action references a node id that is not in the tree.
var ErrUnknownNode = errors.New("unknown node")

// ErrInvalidOption is returned when an answer names an option the node does not declare.
var ErrInvalidOption = errors.New("invalid option")

// ErrHiddenNode is returned when an answer targets a node that is not visible
// under the current answers.
var ErrHiddenNode = errors.New("node is not visible")

// ErrMalformedTree is matched by every structural tree validation failure.
var ErrMalformedTree = errors.New("malformed tree")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
