package diff

import (
	"fmt"
	"reflect"

	"aggregate-persistence/core/errs"
)

// Accessor declares one attribute of T without reflection over its fields.
type Accessor[T any] struct {
	Name   string
	Column string
	Get    func(*T) any
}

// Attr builds an accessor. An empty column is derived from name.
func Attr[T any](name, column string, get func(*T) any) Accessor[T] {
	return Accessor[T]{Name: name, Column: column, Get: get}
}

// Register declares the schema of T explicitly, replacing any schema built by
// reflection. Declared schemas are how types with unexported state expose
// attributes for comparison.
func Register[T any](accessors ...Accessor[T]) error {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return errs.Newf(errs.CodeInvalidArgument, "diff.Register", "%s is not a struct", t)
	}

	s := &Schema{Type: t, Declared: true}
	seen := make(map[string]bool, len(accessors))
	for _, a := range accessors {
		if a.Name == "" || a.Get == nil {
			return errs.Newf(errs.CodeInvalidArgument, "diff.Register", "%s: accessor needs a name and a getter", t)
		}
		if seen[a.Name] {
			return errs.Newf(errs.CodeInvalidArgument, "diff.Register", "%s: accessor %s declared twice", t, a.Name)
		}
		seen[a.Name] = true

		col := a.Column
		if col == "" {
			col = columnNamer.ColumnName("", a.Name)
		}
		s.Fields = append(s.Fields, Field{
			Name:   a.Name,
			Column: col,
			get:    bind(a),
		})
	}

	globalSchemas.mu.Lock()
	globalSchemas.schemas[t] = s
	globalSchemas.mu.Unlock()
	return nil
}

func bind[T any](a Accessor[T]) func(reflect.Value) (any, error) {
	return func(v reflect.Value) (out any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errs.New(errs.CodeFieldAccess, "diff.read "+a.Name, fmt.Sprint(r))
			}
		}()
		var p *T
		if v.CanAddr() {
			p = v.Addr().Interface().(*T)
		} else {
			cp := reflect.New(v.Type())
			cp.Elem().Set(v)
			p = cp.Interface().(*T)
		}
		return a.Get(p), nil
	}
}
