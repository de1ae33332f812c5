package tutorvm

import (
	"fmt"

	"go.starlark.net/starlark"
)

func getIndex(x, key starlark.Value) (starlark.Value, error) {
	switch x := x.(type) {

	case starlark.Mapping:
		val, found, err := x.Get(key)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("key %s not found in %s", key, x.Type())
		}
		return val, nil

	case starlark.Indexable:
		i, err := index(x, key)
		if err != nil {
			return nil, err
		}
		return x.Index(i), nil
	}

	return nil, fmt.Errorf("'%s' value is not subscriptable", x.Type())
}

func setIndex(x, key, val starlark.Value) error {
	switch x := x.(type) {

	case starlark.HasSetKey:
		return x.SetKey(key, val)

	case starlark.HasSetIndex:
		i, err := index(x, key)
		if err != nil {
			return err
		}
		return x.SetIndex(i, val)
	}

	return fmt.Errorf("'%s' value does not support item assignment", x.Type())
}

// index resolves a possibly negative subscript against x.
func index(x starlark.Indexable, key starlark.Value) (int, error) {
	i, err := starlark.AsInt32(key)
	if err != nil {
		return 0, fmt.Errorf("%s indices must be integers, not %s", x.Type(), key.Type())
	}
	n := x.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%s index out of range", x.Type())
	}
	return i, nil
}

// slice implements x[lo:hi:step] with out of range bounds clamped.
func slice(x, lo, hi, step starlark.Value) (starlark.Value, error) {
	sliceable, ok := x.(starlark.Sliceable)
	if !ok {
		return nil, fmt.Errorf("'%s' value cannot be sliced", x.Type())
	}
	n := sliceable.Len()

	stride := 1
	if step != starlark.None {
		var err error
		stride, err = starlark.AsInt32(step)
		if err != nil {
			return nil, fmt.Errorf("slice step must be an integer: %w", err)
		}
		if stride == 0 {
			return nil, fmt.Errorf("slice step cannot be zero")
		}
	}

	bound := func(v starlark.Value, def, low, high int) (int, error) {
		if v == starlark.None {
			return def, nil
		}
		i, err := starlark.AsInt32(v)
		if err != nil {
			return 0, fmt.Errorf("slice indices must be integers: %w", err)
		}
		if i < 0 {
			i += n
		}
		return max(low, min(i, high)), nil
	}

	var start, end int
	var err error
	if stride > 0 {
		if start, err = bound(lo, 0, 0, n); err != nil {
			return nil, err
		}
		if end, err = bound(hi, n, 0, n); err != nil {
			return nil, err
		}
		end = max(end, start)
	} else {
		if start, err = bound(lo, n-1, -1, n-1); err != nil {
			return nil, err
		}
		if end, err = bound(hi, -1, -1, n-1); err != nil {
			return nil, err
		}
		start = max(start, end)
	}

	return sliceable.Slice(start, end, stride), nil
}

func getAttr(x starlark.Value, name string) (starlark.Value, error) {
	attrs, ok := x.(starlark.HasAttrs)
	if !ok {
		return nil, fmt.Errorf("'%s' value has no attribute '%s'", x.Type(), name)
	}
	val, err := attrs.Attr(name)
	if err != nil {
		if _, ok := err.(starlark.NoSuchAttrError); !ok {
			return nil, err
		}
		val = nil
	}
	if val == nil {
		return nil, fmt.Errorf("'%s' value has no attribute '%s'", x.Type(), name)
	}
	return val, nil
}

func setField(x starlark.Value, name string, val starlark.Value) error {
	if fields, ok := x.(starlark.HasSetField); ok {
		return fields.SetField(name, val)
	}
	return fmt.Errorf("cannot set attribute '%s' of '%s' value", name, x.Type())
}

// iterate is starlark.Iterate extended to strings, which iterate by character.
// It returns nil when x is not iterable.
func iterate(x starlark.Value) starlark.Iterator {
	if s, ok := x.(starlark.String); ok {
		var chars starlark.Tuple
		for _, r := range string(s) {
			chars = append(chars, starlark.String(string(r)))
		}
		return chars.Iterate()
	}
	return starlark.Iterate(x)
}
