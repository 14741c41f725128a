// Package diff computes attribute-level differences between two values of the
// same struct type.
//
// # Attributes
//
// The attributes of a struct are its exported fields, with embedded structs
// flattened into their promoted fields. Fields tagged `diff:"-"` or `gorm:"-"`
// are not attributes. A type may instead declare its attributes with Register,
// which takes precedence over reflection.
//
// Attribute descriptors are built once per type and cached for the lifetime of
// the process. Concurrent first use of a type builds its schema only once.
//
// # Equality
//
// Values are compared structurally with go-cmp. The only relaxation is that a
// null value (nil pointer, nil interface, invalid sql.NullString) equals an
// empty string on the other side.
//
// # Usage
//
//	fields, err := diff.FindChangedFields(current, snapshot, diff.NamingColumn)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(fields.Names()) // [status total_money]
package diff
