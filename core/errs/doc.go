// Package errs defines the error taxonomy shared by every persistence layer.
//
// All failures surface synchronously as *Error values tagged with a Code:
//
//   - not_found: the aggregate to load does not exist.
//   - optimistic_lock_conflict: a conditional update matched no row.
//   - batch_limit_exceeded: a batch insert is larger than the engine allows.
//   - field_access_failure: an attribute could not be read during diffing.
//   - null_argument: a required argument was nil.
//   - duplicate_identity: one collection holds the same id twice.
//
// Codes can be tested with IsCode or with errors.Is against the exported sentinels:
//
//	if errors.Is(err, errs.ErrOptimisticLock) {
//	    // reload and let the caller retry
//	}
package errs
