/*
Package ports defines the driven ports (interfaces) for the Sprig engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various tree sources and storage backends.

# Key Interfaces

  - TreeLoader: Responsible for supplying the question tree (e.g., from a file or memory).
  - StateStore: Responsible for persisting and loading session State (answers).
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - StatelessEngine: What transports (HTTP, MCP, terminal) need from the engine.
*/
package ports
