package diff

import (
	"database/sql"
	"fmt"
	"reflect"

	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"

	"github.com/google/go-cmp/cmp"
)

var (
	exportAll      = cmp.Exporter(func(reflect.Type) bool { return true })
	nullStringType = reflect.TypeOf(sql.NullString{})
)

// FindChangedFields returns the attributes whose values differ between newObj
// and oldObj. Pointers are dereferenced. Values of different types have no
// comparable attributes and yield an empty set, as do non-struct values.
//
// A null value on one side and an empty string on the other are equal.
func FindChangedFields(newObj, oldObj any, naming Naming) (FieldSet, error) {
	const op = "diff.FindChangedFields"
	if entity.IsNil(newObj) || entity.IsNil(oldObj) {
		return nil, errs.New(errs.CodeNullArgument, op, "both objects are required")
	}

	nv, ok := indirect(reflect.ValueOf(newObj))
	if !ok {
		return nil, errs.New(errs.CodeNullArgument, op, "new object is a nil pointer")
	}
	ov, ok := indirect(reflect.ValueOf(oldObj))
	if !ok {
		return nil, errs.New(errs.CodeNullArgument, op, "old object is a nil pointer")
	}

	changed := FieldSet{}
	if nv.Type() != ov.Type() || nv.Kind() != reflect.Struct {
		return changed, nil
	}

	s, err := SchemaOf(nv.Type())
	if err != nil {
		return nil, err
	}
	for _, f := range s.Fields {
		a, err := f.read(nv)
		if err != nil {
			return nil, err
		}
		b, err := f.read(ov)
		if err != nil {
			return nil, err
		}
		eq, err := equal(a, b)
		if err != nil {
			return nil, errs.Wrap(errs.CodeFieldAccess, "diff.compare "+f.Name, err)
		}
		if !eq {
			changed.Add(f.Key(naming))
		}
	}
	return changed, nil
}

// Changed reports whether any attribute differs.
func Changed(newObj, oldObj any) (bool, error) {
	fields, err := FindChangedFields(newObj, oldObj, NamingField)
	if err != nil {
		return false, err
	}
	return !fields.Empty(), nil
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, true
}

func equal(a, b reflect.Value) (bool, error) {
	an, bn := nullish(a), nullish(b)
	switch {
	case an && bn:
		return true, nil
	case an && emptyString(b), bn && emptyString(a):
		return true, nil
	case an || bn:
		return false, nil
	}
	return deepEqual(a.Interface(), b.Interface())
}

func deepEqual(a, b any) (eq bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return cmp.Equal(a, b, exportAll), nil
}

func nullish(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	if v.Type() == nullStringType {
		return !v.Interface().(sql.NullString).Valid
	}
	return false
}

func emptyString(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return false
		}
		return emptyString(v.Elem())
	}
	if v.Type() == nullStringType {
		ns := v.Interface().(sql.NullString)
		return ns.Valid && ns.String == ""
	}
	return false
}
