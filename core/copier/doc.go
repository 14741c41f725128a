// Package copier provides deep copy strategies used to capture aggregate snapshots.
//
// A snapshot must never share memory with the live object graph. Three
// strategies are available and selected by name from configuration:
//
//   - json: encode/decode round trip (default)
//   - clone: github.com/huandu/go-clone, copies unexported state and cycles
//   - copystructure: github.com/mitchellh/copystructure
package copier
