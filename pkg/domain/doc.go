/*
Package domain contains the core domain models of the Sprig questionnaire engine.

It defines the read-only question tree, the answers recorded for a form
session, and the render-ready view the engine produces. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Node: A single-choice question with ordered options and child questions.
  - Tree: An indexed, immutable forest of nodes (one or more roots).
  - Answers: The option chosen per node id (the Selection Store contents).
  - State: The persisted snapshot of a form session (Answers + Revision).
  - VisibleNode: One render instruction produced for the host.
*/
package domain
