// Package order is the sample aggregate wired end to end.
//
// An order owns its items. The Gateway loads both tables into an aggregate
// and saves it in one transaction through repository tables backed by the
// gorm engine: the order row is updated under its version and the item list
// is reconciled into batch inserts, per item updates and a batch delete.
// Committed saves are journaled.
//
// # Routes
//
//   - GET /orders/:id
//   - POST /orders
//   - PUT /orders/:id (body carries the version read)
//
// Not found maps to 404, version conflicts to 409, bad input to 400.
package order
