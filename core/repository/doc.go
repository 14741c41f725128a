// Package repository turns tracked aggregate changes into storage operations.
//
// # Engine
//
// Engine is the port to storage: single and batch insert, conditional update
// and batch delete. Concrete engines live under core/engine.
//
// # Table
//
// A Table binds a domain type to its persistence projection and performs the
// write side of an aggregate:
//
//   - Insert / InsertAll: assign the initial version, insert, write ids back.
//   - SafeUpdate: diff the projected values and issue one version guarded update.
//   - ListUpdate: reconcile an owned child collection into inserts, updates and deletes.
//
// # Save
//
// Save decides between create, no-op and update for an aggregate and
// converts an update that affected nothing into an optimistic lock conflict.
package repository
