package ir

import (
	"strconv"
	"strings"
)

// PrimitiveKind is the category of a built-in type.
type PrimitiveKind int

const (
	PrimitiveBool PrimitiveKind = iota
	PrimitiveInt
	PrimitiveUint
	PrimitiveFloat
	PrimitiveString
	PrimitiveBytes    // []byte, base64 on the wire
	PrimitiveTime     // time.Time, RFC 3339 on the wire
	PrimitiveDuration // time.Duration, integer nanoseconds on the wire
	PrimitiveAny      // any value; documented as a free-form object
	PrimitiveEmpty    // struct{}
)

var kindNames = [...]string{
	PrimitiveBool:     "bool",
	PrimitiveInt:      "int",
	PrimitiveUint:     "uint",
	PrimitiveFloat:    "float",
	PrimitiveString:   "string",
	PrimitiveBytes:    "[]byte",
	PrimitiveTime:     "time.Time",
	PrimitiveDuration: "time.Duration",
	PrimitiveAny:      "any",
	PrimitiveEmpty:    "struct{}",
}

func (k PrimitiveKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "PrimitiveKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Numeric reports whether the kind is sized by BitSize.
func (k PrimitiveKind) Numeric() bool {
	return k == PrimitiveInt || k == PrimitiveUint || k == PrimitiveFloat
}

// PrimitiveDescriptor is a built-in scalar.
type PrimitiveDescriptor struct {
	exprBase
	PrimitiveKind PrimitiveKind

	// BitSize is 8, 16, 32 or 64 for numeric kinds, 0 for the
	// platform-sized int and uint.
	BitSize int
}

func (d *PrimitiveDescriptor) Kind() DescriptorKind { return KindPrimitive }

// GoName spells the primitive as Go source does ("int32", "time.Time").
func (d *PrimitiveDescriptor) GoName() string {
	if d.PrimitiveKind.Numeric() && d.BitSize != 0 {
		return d.PrimitiveKind.String() + strconv.Itoa(d.BitSize)
	}
	return d.PrimitiveKind.String()
}

// ParsePrimitive is the inverse of GoName. It also accepts "interface{}".
func ParsePrimitive(name string) (*PrimitiveDescriptor, bool) {
	switch name {
	case "interface{}":
		return Any(), true
	case "float":
		return nil, false
	}
	for k, n := range kindNames {
		kind := PrimitiveKind(k)
		if name == n {
			return &PrimitiveDescriptor{PrimitiveKind: kind}, true
		}
		if !kind.Numeric() {
			continue
		}
		rest, ok := strings.CutPrefix(name, n)
		if !ok {
			continue
		}
		switch rest {
		case "8", "16":
			if kind == PrimitiveFloat {
				return nil, false
			}
			fallthrough
		case "32", "64":
			bits, _ := strconv.Atoi(rest)
			return &PrimitiveDescriptor{PrimitiveKind: kind, BitSize: bits}, true
		}
	}
	return nil, false
}

func Bool() *PrimitiveDescriptor   { return &PrimitiveDescriptor{PrimitiveKind: PrimitiveBool} }
func String() *PrimitiveDescriptor { return &PrimitiveDescriptor{PrimitiveKind: PrimitiveString} }

// Int is a signed integer of bitSize bits, 0 for int.
func Int(bitSize int) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveInt, BitSize: bitSize}
}

// Uint is an unsigned integer of bitSize bits, 0 for uint.
func Uint(bitSize int) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveUint, BitSize: bitSize}
}

// Float is float32 or float64.
func Float(bitSize int) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveFloat, BitSize: bitSize}
}

func Bytes() *PrimitiveDescriptor    { return &PrimitiveDescriptor{PrimitiveKind: PrimitiveBytes} }
func Time() *PrimitiveDescriptor     { return &PrimitiveDescriptor{PrimitiveKind: PrimitiveTime} }
func Duration() *PrimitiveDescriptor { return &PrimitiveDescriptor{PrimitiveKind: PrimitiveDuration} }
func Any() *PrimitiveDescriptor      { return &PrimitiveDescriptor{PrimitiveKind: PrimitiveAny} }
func Empty() *PrimitiveDescriptor    { return &PrimitiveDescriptor{PrimitiveKind: PrimitiveEmpty} }
