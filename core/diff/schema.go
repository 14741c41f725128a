package diff

import (
	"fmt"
	"reflect"
	"sync"

	"aggregate-persistence/core/errs"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm/schema"
)

// Naming selects how attribute names are reported.
type Naming int

const (
	// NamingField reports Go field names, e.g. TotalMoney.
	NamingField Naming = iota
	// NamingColumn reports storage column names, e.g. total_money.
	NamingColumn
)

func (n Naming) String() string {
	if n == NamingColumn {
		return "column"
	}
	return "field"
}

// Field describes one comparable attribute of a struct type.
type Field struct {
	// Name is the Go field name.
	Name string
	// Column is the storage column name.
	Column string
	// Index is the reflect index path; nil for declared accessors.
	Index []int

	get func(reflect.Value) (any, error)
}

// Key returns the attribute name under naming.
func (f Field) Key(naming Naming) string {
	if naming == NamingColumn {
		return f.Column
	}
	return f.Name
}

// read returns the attribute value held by v, which must be a struct of the schema type.
func (f Field) read(v reflect.Value) (reflect.Value, error) {
	if f.get != nil {
		out, err := f.get(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(out), nil
	}
	fv, err := v.FieldByIndexErr(f.Index)
	if err != nil {
		return reflect.Value{}, errs.Wrap(errs.CodeFieldAccess, "diff.read "+f.Name, err)
	}
	return fv, nil
}

// Schema is the cached attribute descriptor of a struct type.
type Schema struct {
	Type     reflect.Type
	Fields   []Field
	Declared bool
}

// Lookup returns the field named name (Go name or column).
func (s *Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name || f.Column == name {
			return f, true
		}
	}
	return Field{}, false
}

type schemaStore struct {
	mu      sync.RWMutex
	schemas map[reflect.Type]*Schema
	sf      singleflight.Group
}

// globalSchemas lives for the process; entries are never invalidated.
var globalSchemas = &schemaStore{
	schemas: make(map[reflect.Type]*Schema),
}

var columnNamer = schema.NamingStrategy{}

// SchemaOf returns the schema for t, building and caching it on first use.
// Pointer types are dereferenced.
func SchemaOf(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, errs.New(errs.CodeNullArgument, "diff.SchemaOf", "type is nil")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	globalSchemas.mu.RLock()
	s, ok := globalSchemas.schemas[t]
	globalSchemas.mu.RUnlock()
	if ok {
		return s, nil
	}

	key := fmt.Sprintf("%v@%p", t, t)
	result, err, _ := globalSchemas.sf.Do(key, func() (interface{}, error) {
		globalSchemas.mu.RLock()
		s, ok := globalSchemas.schemas[t]
		globalSchemas.mu.RUnlock()
		if ok {
			return s, nil
		}

		built, err := parse(t)
		if err != nil {
			return nil, err
		}

		globalSchemas.mu.Lock()
		if existing, ok := globalSchemas.schemas[t]; ok {
			// a declared schema registered meanwhile wins
			built = existing
		} else {
			globalSchemas.schemas[t] = built
		}
		globalSchemas.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Schema), nil
}

// Prepare builds the schemas of the given values ahead of first use.
func Prepare(values ...any) error {
	for _, v := range values {
		if _, err := SchemaOf(reflect.TypeOf(v)); err != nil {
			return err
		}
	}
	return nil
}

// parse enumerates the exported, visible fields of t. Embedded structs are
// flattened; fields tagged diff:"-" or gorm:"-" are skipped.
func parse(t reflect.Type) (*Schema, error) {
	s := &Schema{Type: t}
	if t.Kind() != reflect.Struct {
		return s, nil
	}

	var skipped [][]int
	columns := make(map[string]string)
	for _, sf := range reflect.VisibleFields(t) {
		if under(sf.Index, skipped) {
			continue
		}
		if ignored(sf) {
			skipped = append(skipped, sf.Index)
			continue
		}
		if sf.Anonymous && isStruct(sf.Type) {
			continue
		}
		if !sf.IsExported() {
			continue
		}

		col := columnOf(sf)
		if prev, ok := columns[col]; ok {
			return nil, errs.Newf(errs.CodeFieldAccess, "diff.parse", "%s: fields %s and %s share column %q", t, prev, sf.Name, col)
		}
		columns[col] = sf.Name
		s.Fields = append(s.Fields, Field{
			Name:   sf.Name,
			Column: col,
			Index:  sf.Index,
		})
	}
	return s, nil
}

func ignored(sf reflect.StructField) bool {
	if sf.Tag.Get("diff") == "-" {
		return true
	}
	return sf.Tag.Get("gorm") == "-"
}

func columnOf(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("gorm"); ok {
		if col := schema.ParseTagSetting(tag, ";")["COLUMN"]; col != "" {
			return col
		}
	}
	return columnNamer.ColumnName("", sf.Name)
}

func isStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func under(index []int, prefixes [][]int) bool {
	for _, p := range prefixes {
		if len(index) <= len(p) {
			continue
		}
		match := true
		for i := range p {
			if index[i] != p[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
