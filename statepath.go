package dragon

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mohae/deepcopy"
)

// getParam reads the number at a dotted path inside state.
func getParam(state any, path string) (float64, error) {
	v := reflect.ValueOf(state)
	for _, seg := range splitParamPath(path) {
		next, err := step(v, seg)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrBadParamPath, path, err)
		}
		v = next
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q is %s", ErrBadParamPath, path, v.Kind())
	}
	return f, nil
}

// withParams returns a deep copy of state with each path set to the
// matching value.
func withParams[T any](state T, paths []string, values []float64) (T, error) {
	cp, _ := deepcopy.Copy(state).(T)
	root := reflect.ValueOf(&cp).Elem()
	for i, p := range paths {
		if err := setIn(root, splitParamPath(p), values[i]); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: %q: %v", ErrBadParamPath, p, err)
		}
	}
	return cp, nil
}

func splitParamPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

// step descends one segment without requiring addressability.
func step(v reflect.Value, seg string) (reflect.Value, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil before %q", seg)
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		f, ok := fieldByParam(v, seg)
		if !ok {
			return reflect.Value{}, fmt.Errorf("no field %q in %s", seg, v.Type())
		}
		return f, nil
	case reflect.Map:
		k, err := mapKey(v.Type().Key(), seg)
		if err != nil {
			return reflect.Value{}, err
		}
		e := v.MapIndex(k)
		if !e.IsValid() {
			return reflect.Value{}, fmt.Errorf("no key %q", seg)
		}
		return e, nil
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}, fmt.Errorf("bad index %q (len %d)", seg, v.Len())
		}
		return v.Index(i), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot descend into %s with %q", v.Kind(), seg)
}

// setIn writes x at segs below v. v must be settable unless segs routes
// through a map, whose entries are copied out, updated and stored back.
func setIn(v reflect.Value, segs []string, x float64) error {
	if len(segs) == 0 {
		return setFloat(v, x)
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return fmt.Errorf("nil before %q", segs[0])
		}
		return setIn(v.Elem(), segs, x)
	case reflect.Interface:
		if v.IsNil() {
			return fmt.Errorf("nil before %q", segs[0])
		}
		cp := reflect.New(v.Elem().Type()).Elem()
		cp.Set(v.Elem())
		if err := setIn(cp, segs, x); err != nil {
			return err
		}
		if !v.CanSet() {
			return fmt.Errorf("cannot set through interface at %q", segs[0])
		}
		v.Set(cp)
		return nil
	case reflect.Map:
		k, err := mapKey(v.Type().Key(), segs[0])
		if err != nil {
			return err
		}
		e := v.MapIndex(k)
		if !e.IsValid() {
			return fmt.Errorf("no key %q", segs[0])
		}
		cp := reflect.New(e.Type()).Elem()
		cp.Set(e)
		if err := setIn(cp, segs[1:], x); err != nil {
			return err
		}
		v.SetMapIndex(k, cp)
		return nil
	}
	next, err := step(v, segs[0])
	if err != nil {
		return err
	}
	return setIn(next, segs[1:], x)
}

func fieldByParam(v reflect.Value, seg string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tag, _, _ := strings.Cut(t.Field(i).Tag.Get("dragon"), ","); tag == seg {
			return v.Field(i), true
		}
	}
	if _, ok := t.FieldByName(seg); ok {
		return v.FieldByName(seg), true
	}
	f := v.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, seg) })
	return f, f.IsValid()
}

func mapKey(t reflect.Type, seg string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(seg).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(seg, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("bad map key %q", seg)
		}
		return reflect.ValueOf(i).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported map key type %s", t)
}

func toFloat(v reflect.Value) (float64, bool) {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	}
	return 0, false
}

func setFloat(v reflect.Value, x float64) error {
	if !v.CanSet() {
		return fmt.Errorf("value is not settable (unexported field?)")
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(x)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(math.Round(x)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(math.Max(0, math.Round(x))))
	case reflect.Interface:
		v.Set(reflect.ValueOf(x))
	default:
		return fmt.Errorf("%s is not numeric", v.Kind())
	}
	return nil
}
