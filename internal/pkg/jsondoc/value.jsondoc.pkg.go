package jsondoc

import (
	"math"
	"strconv"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// Value is a JSON value. The zero Value is null. Values are built only
// through the constructors below, so every Value has one of the six kinds.
type Value struct {
	kind Kind
	text string // string contents, or the number literal
	b    bool
	obj  *Object
	arr  []Value
}

func Null() Value {
	return Value{}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

func Int(n int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)}
}

// Float encodes NaN and infinities as null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func ObjectValue(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

func Array(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// Object is a JSON object whose keys keep insertion order. Setting an
// existing key replaces its value in place.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Set(key string, v Value) *Object {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

func (o *Object) SetString(key, s string) *Object {
	return o.Set(key, String(s))
}
