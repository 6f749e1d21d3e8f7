// Package reflector builds invokable method tables over plain Go values.
// It backs the reflective management interface: a registered object's
// exported methods become addressable by (name, positional type
// signature), with JSON-decoded arguments coerced to parameter types.
package reflector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrMethodNotFound = errors.New("method not found")
	ErrBadArgument    = errors.New("bad argument")
)

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
var errType = reflect.TypeOf((*error)(nil)).Elem()

// Method is one invokable entry of a MethodSet.
type Method struct {
	Name string
	// Signature holds the positional parameter type names, e.g.
	// ["string", "bool", "bool"]. A leading context.Context parameter is
	// not part of the signature.
	Signature []string

	fn     reflect.Value
	hasCtx bool
}

// MethodSet is the invokable method table of a single target value.
type MethodSet struct {
	methods []Method
}

var (
	muSets sync.RWMutex
	sets   = make(map[reflect.Type][]Method)
)

// MethodsOf builds the method table of target. Only exported methods with
// at most one value result and at most one trailing error result are
// exposed; others are skipped. Tables are cached per concrete type.
func MethodsOf(target any) (*MethodSet, error) {
	if target == nil {
		return nil, fmt.Errorf("reflector: nil target")
	}
	v := reflect.ValueOf(target)
	t := v.Type()

	muSets.RLock()
	cached, ok := sets[t]
	muSets.RUnlock()
	if ok {
		return bind(v, cached), nil
	}

	var methods []Method
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		ft := m.Type // includes receiver at In(0)
		if !returnsInvokable(ft) {
			continue
		}
		in := 1
		hasCtx := false
		if ft.NumIn() > in && ft.In(in) == ctxType {
			hasCtx = true
			in++
		}
		sig := make([]string, 0, ft.NumIn()-in)
		for ; in < ft.NumIn(); in++ {
			sig = append(sig, ft.In(in).String())
		}
		methods = append(methods, Method{
			Name:      m.Name,
			Signature: sig,
			hasCtx:    hasCtx,
		})
	}

	muSets.Lock()
	sets[t] = methods
	muSets.Unlock()

	return bind(v, methods), nil
}

// bind attaches the receiver value to a cached (receiver-free) table.
func bind(v reflect.Value, methods []Method) *MethodSet {
	bound := make([]Method, len(methods))
	copy(bound, methods)
	for i := range bound {
		bound[i].fn = v.MethodByName(bound[i].Name)
	}
	return &MethodSet{methods: bound}
}

func returnsInvokable(ft reflect.Type) bool {
	switch ft.NumOut() {
	case 0:
		return true
	case 1:
		return true
	case 2:
		return ft.Out(1) == errType
	default:
		return false
	}
}

// Methods returns the table entries in declaration order.
func (s *MethodSet) Methods() []Method {
	return s.methods
}

// Lookup finds the method with the given name whose signature equals sig
// element-wise.
func (s *MethodSet) Lookup(name string, sig []string) (Method, bool) {
	for _, m := range s.methods {
		if m.Name != name || len(m.Signature) != len(sig) {
			continue
		}
		match := true
		for i := range sig {
			if sig[i] != m.Signature[i] {
				match = false
				break
			}
		}
		if match {
			return m, true
		}
	}
	return Method{}, false
}

// Call invokes the method identified by (name, sig) with args coerced to
// the declared parameter types. Methods declaring a leading
// context.Context receive ctx. The result follows the usual conventions:
// (T), (T, error), (error) or no results at all.
func (s *MethodSet) Call(ctx context.Context, name string, args []any, sig []string) (any, error) {
	m, ok := s.Lookup(name, sig)
	if !ok {
		return nil, fmt.Errorf("%w: %s(%v)", ErrMethodNotFound, name, sig)
	}

	ft := m.fn.Type()
	if len(args) != len(m.Signature) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrBadArgument, name, len(m.Signature), len(args))
	}

	in := make([]reflect.Value, 0, ft.NumIn())
	offset := 0
	if m.hasCtx {
		in = append(in, reflect.ValueOf(ctx))
		offset = 1
	}
	for i, arg := range args {
		v, err := coerce(arg, ft.In(i+offset))
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %d: %v", ErrBadArgument, name, i, err)
		}
		in = append(in, v)
	}

	out := m.fn.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if ft.Out(0) == errType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// coerce converts a decoded wire value to the parameter type. JSON decodes
// every number to float64 and every object to map[string]any, so numeric
// conversion and a JSON round trip cover the gap.
func coerce(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type() == t {
		return v, nil
	}
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		return v.Convert(t), nil
	}

	data, err := json.Marshal(arg)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(t)
	if err := json.Unmarshal(data, out.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, t)
	}
	return out.Elem(), nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
