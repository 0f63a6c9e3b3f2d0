package scratch

import (
	"strconv"
	"unicode/utf8"
	"unsafe"
)

// Builder appends text into arena memory. The strings it returns are views
// into the arena: no heap allocation, valid until the next Clear.
//
//	label := arena.Text().S("HP ").I(hp).C('/').I(maxHP).String()
//
// Builder is a value sharing its buffer with every copy. Forking two
// builders from one prefix makes them write the same bytes, so a string
// taken from the first changes when the second appends. Finish one chain
// before starting the next, or start each from Text().
type Builder struct {
	a   *Arena
	buf []byte
}

// Text starts an empty builder on a.
func (a *Arena) Text() Builder { return Builder{a: a} }

func (b Builder) reserve(n int) Builder {
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		return b
	}
	newCap := max(2*cap(b.buf), need, 16)
	grown := ReallocateArray(b.a, b.buf[:cap(b.buf)], newCap)
	b.buf = grown[:len(b.buf)]
	return b
}

func (b Builder) B(p []byte) Builder {
	b = b.reserve(len(p))
	b.buf = append(b.buf, p...)
	return b
}

func (b Builder) S(s string) Builder {
	b = b.reserve(len(s))
	b.buf = append(b.buf, s...)
	return b
}

func (b Builder) C(c byte) Builder {
	b = b.reserve(1)
	b.buf = append(b.buf, c)
	return b
}

func (b Builder) R(r rune) Builder {
	b = b.reserve(utf8.UTFMax)
	b.buf = utf8.AppendRune(b.buf, r)
	return b
}

// I appends a base-10 integer.
func (b Builder) I(v int) Builder {
	var tmp [24]byte
	return b.B(strconv.AppendInt(tmp[:0], int64(v), 10))
}

// U appends an unsigned base-10 integer.
func (b Builder) U(v uint) Builder {
	var tmp [24]byte
	return b.B(strconv.AppendUint(tmp[:0], uint64(v), 10))
}

// F64 appends v with prec digits after the decimal point.
func (b Builder) F64(v float64, prec int) Builder {
	var tmp [64]byte
	return b.B(strconv.AppendFloat(tmp[:0], v, 'f', prec, 64))
}

func (b Builder) Bool(v bool) Builder {
	if v {
		return b.S("true")
	}
	return b.S("false")
}

// Hex appends u in lowercase hexadecimal without a prefix.
func (b Builder) Hex(u uint64) Builder {
	var tmp [16]byte
	return b.B(strconv.AppendUint(tmp[:0], u, 16))
}

// Pad appends n copies of c.
func (b Builder) Pad(n int, c byte) Builder {
	if n <= 0 {
		return b
	}
	b = b.reserve(n)
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, c)
	}
	return b
}

func (b Builder) Len() int      { return len(b.buf) }
func (b Builder) Bytes() []byte { return b.buf }

// String returns a view of the built text. Valid until the arena clears.
func (b Builder) String() string {
	if len(b.buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b.buf), len(b.buf))
}

// Sprintf formats into arena memory. It understands %s %d %u %f, an
// optional precision for %f (%.2f), %v for the same argument kinds, and %%.
// Unknown verbs are written literally and consume no argument.
func (a *Arena) Sprintf(format string, args ...any) string {
	b := a.Text()
	next := 0
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			b = b.C(ch)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b = b.C('%')
			i++
			continue
		}
		i++
		prec := -1
		if i < len(format) && format[i] == '.' {
			i++
			start := i
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
			prec, _ = strconv.Atoi(format[start:i])
		}
		if i >= len(format) {
			break
		}
		if !knownVerb(format[i]) {
			b = b.C('%').C(format[i])
			continue
		}
		if next >= len(args) {
			break
		}
		b = b.arg(format[i], prec, args[next])
		next++
	}
	return b.String()
}

func knownVerb(c byte) bool {
	switch c {
	case 's', 'v', 'd', 'u', 'f':
		return true
	}
	return false
}

func (b Builder) arg(verb byte, prec int, v any) Builder {
	switch verb {
	case 's', 'v':
		switch x := v.(type) {
		case string:
			return b.S(x)
		case []byte:
			return b.B(x)
		case bool:
			return b.Bool(x)
		case float32, float64:
			return b.arg('f', prec, v)
		case nil:
			return b.S("<nil>")
		}
		return b.arg('d', prec, v)
	case 'd':
		var tmp [24]byte
		if u, ok := asUint(v); ok {
			return b.B(strconv.AppendUint(tmp[:0], u, 10))
		}
		if n, ok := asInt(v); ok {
			return b.B(strconv.AppendInt(tmp[:0], n, 10))
		}
	case 'u':
		var tmp [24]byte
		if u, ok := asUint(v); ok {
			return b.B(strconv.AppendUint(tmp[:0], u, 10))
		}
		if n, ok := asInt(v); ok {
			return b.B(strconv.AppendUint(tmp[:0], uint64(n), 10))
		}
	case 'f':
		if prec < 0 {
			prec = 3
		}
		switch x := v.(type) {
		case float32:
			return b.F64(float64(x), prec)
		case float64:
			return b.F64(x, prec)
		}
		if u, ok := asUint(v); ok {
			return b.F64(float64(u), prec)
		}
		if n, ok := asInt(v); ok {
			return b.F64(float64(n), prec)
		}
	}
	return b.S("<bad>")
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}

func asUint(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case uintptr:
		return uint64(x), true
	}
	return 0, false
}
