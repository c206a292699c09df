/*
Package domain contains the core wire types for the Lattice concept runtime.

It defines the protocol envelope exchanged with the surrounding sync engine
(ActionInvocation, ActionCompletion, ConceptQuery) and the storage-level
entities (StoredEntry). This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - ActionInvocation: Inbound request asking a concept to perform a named action.
  - ActionCompletion: Outbound response carrying a variant tag and output payload.
  - ConceptQuery: Inbound request reading a concept's relation, optionally filtered.
  - StoredEntry: A stored value plus its last-written timestamp.
*/
package domain
