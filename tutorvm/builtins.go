package tutorvm

import (
	"fmt"
	"math"
	"math/big"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Builtins are the names visible to every snippet: the starlark universe plus
// the few arithmetic helpers beginners expect.
var Builtins = func() starlark.StringDict {
	dict := make(starlark.StringDict, len(starlark.Universe)+3)
	for name, val := range starlark.Universe {
		dict[name] = val
	}
	dict["sum"] = starlark.NewBuiltin("sum", builtinSum)
	dict["round"] = starlark.NewBuiltin("round", builtinRound)
	dict["pow"] = starlark.NewBuiltin("pow", builtinPow)
	return dict
}()

func builtinSum(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var iterable starlark.Value
	var start starlark.Value = starlark.MakeInt(0)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &iterable, &start); err != nil {
		return nil, err
	}
	iter := starlark.Iterate(iterable)
	if iter == nil {
		return nil, fmt.Errorf("sum: '%s' value is not iterable", iterable.Type())
	}
	defer iter.Done()
	total := start
	var elem starlark.Value
	for iter.Next(&elem) {
		var err error
		total, err = starlark.Binary(syntax.PLUS, total, elem)
		if err != nil {
			return nil, fmt.Errorf("sum: %w", err)
		}
	}
	return total, nil
}

// builtinRound rounds half to even, like Python.
func builtinRound(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	var digits starlark.Value = starlark.None
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x, &digits); err != nil {
		return nil, err
	}

	if digits == starlark.None {
		switch x := x.(type) {
		case starlark.Int:
			return x, nil
		case starlark.Float:
			if math.IsInf(float64(x), 0) || math.IsNaN(float64(x)) {
				return nil, fmt.Errorf("round: cannot convert %s to integer", x)
			}
			return starlark.NumberToInt(starlark.Float(math.RoundToEven(float64(x))))
		}
		return nil, fmt.Errorf("round: got %s, want number", x.Type())
	}

	n, err := starlark.AsInt32(digits)
	if err != nil {
		return nil, fmt.Errorf("round: %w", err)
	}
	switch x := x.(type) {
	case starlark.Int:
		if n >= 0 {
			return x, nil
		}
		f, _ := starlark.AsFloat(x)
		scale := math.Pow(10, float64(-n))
		return starlark.NumberToInt(starlark.Float(math.RoundToEven(f/scale) * scale))
	case starlark.Float:
		scale := math.Pow(10, float64(n))
		return starlark.Float(math.RoundToEven(float64(x)*scale) / scale), nil
	}
	return nil, fmt.Errorf("round: got %s, want number", x.Type())
}

func builtinPow(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var base, exp starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &base, &exp); err != nil {
		return nil, err
	}

	bi, baseIsInt := base.(starlark.Int)
	ei, expIsInt := exp.(starlark.Int)
	if baseIsInt && expIsInt && ei.BigInt().Sign() >= 0 {
		return starlark.MakeBigInt(new(big.Int).Exp(bi.BigInt(), ei.BigInt(), nil)), nil
	}

	fb, ok := starlark.AsFloat(base)
	if !ok {
		return nil, fmt.Errorf("pow: got %s, want number", base.Type())
	}
	fe, ok := starlark.AsFloat(exp)
	if !ok {
		return nil, fmt.Errorf("pow: got %s, want number", exp.Type())
	}
	if fb == 0 && fe < 0 {
		return nil, fmt.Errorf("pow: zero to a negative power")
	}
	return starlark.Float(math.Pow(fb, fe)), nil
}
