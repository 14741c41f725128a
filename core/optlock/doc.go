// Package optlock implements the optimistic locking protocol used for updates.
//
// Each versioned row starts at version 1 and moves up by exactly one on every
// successful conditional update. An update is conditioned on the identity and
// the version the writer loaded; if no row matches, the update reports false
// and the in-memory version is left untouched. Conflicts are not retried.
package optlock
