/*
Package ports defines the driven ports (interfaces) for the Lattice runtime.

These interfaces decouple the dispatch core from external implementations,
allowing concepts to run against various storage backends and handler types.

# Key Interfaces

  - Storage: Responsible for a concept's relation store (memory, Redis, or
    externally supplied implementations).
  - Handler: Responsible for declaring a concept's named action operations.
*/
package ports
