package copier

import (
	"encoding/json"
	"fmt"
	"reflect"

	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"

	"github.com/huandu/go-clone"
	"github.com/mitchellh/copystructure"
)

const (
	// NameJSON selects the encode/decode round trip copier.
	NameJSON = "json"
	// NameClone selects the reflection copier from go-clone.
	NameClone = "clone"
	// NameCopyStructure selects the copier from mitchellh/copystructure.
	NameCopyStructure = "copystructure"
)

// DeepCopier produces a structurally independent copy of a value.
type DeepCopier interface {
	Copy(src any) (any, error)
}

// New returns the copier registered under name. An empty name selects JSON.
func New(name string) (DeepCopier, error) {
	switch name {
	case "", NameJSON:
		return JSON{}, nil
	case NameClone:
		return Clone{}, nil
	case NameCopyStructure:
		return Structure{}, nil
	default:
		return nil, errs.Newf(errs.CodeInvalidArgument, "copier.New", "unknown copier %q", name)
	}
}

// Copy deep copies src with c and asserts the result back to T.
func Copy[T any](c DeepCopier, src T) (T, error) {
	var zero T
	out, err := c.Copy(src)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, errs.Newf(errs.CodeInvalidState, "copier.Copy", "copy of %T returned %T", src, out)
	}
	return typed, nil
}

// JSON copies through an encode/decode round trip. Only state visible to
// encoding/json survives, which matches what is persisted.
//
// Exported fields tagged json:"-" come back as zero values, so a root carrying
// one always differs from its snapshot. Tag such fields diff:"-" as well, or
// snapshot with Clone.
type JSON struct{}

func (JSON) Copy(src any) (any, error) {
	if entity.IsNil(src) {
		return nil, errs.New(errs.CodeNullArgument, "copier.JSON", "source is nil")
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("copier.JSON: encode %T: %w", src, err)
	}

	t := reflect.TypeOf(src)
	if t.Kind() == reflect.Pointer {
		dst := reflect.New(t.Elem())
		if err := json.Unmarshal(raw, dst.Interface()); err != nil {
			return nil, fmt.Errorf("copier.JSON: decode %T: %w", src, err)
		}
		return dst.Interface(), nil
	}
	dst := reflect.New(t)
	if err := json.Unmarshal(raw, dst.Interface()); err != nil {
		return nil, fmt.Errorf("copier.JSON: decode %T: %w", src, err)
	}
	return dst.Elem().Interface(), nil
}

// Clone copies every field, including unexported ones, and tolerates cycles.
type Clone struct{}

func (Clone) Copy(src any) (any, error) {
	if entity.IsNil(src) {
		return nil, errs.New(errs.CodeNullArgument, "copier.Clone", "source is nil")
	}
	return clone.Slowly(src), nil
}

// Structure copies exported state with copystructure.
type Structure struct{}

func (Structure) Copy(src any) (any, error) {
	if entity.IsNil(src) {
		return nil, errs.New(errs.CodeNullArgument, "copier.Structure", "source is nil")
	}
	out, err := copystructure.Copy(src)
	if err != nil {
		return nil, fmt.Errorf("copier.Structure: %w", err)
	}
	return out, nil
}
