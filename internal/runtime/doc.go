// Package runtime implements the hierarchical selection-state engine:
// the Selection Store, the Cascade Invalidator (Engine.Answer) and the
// Visibility Resolver (Engine.VisibleNodes).
package runtime
