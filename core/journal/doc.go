// Package journal records what each committed aggregate save did.
//
// A Record names the aggregate and root, the save outcome, the version the
// root reached, the root fields written and per child collection counts.
// Sinks deliver records to the log, to object storage, or nowhere. Emit never
// fails the caller.
package journal
