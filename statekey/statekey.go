// Package statekey derives stable content keys from lifecycle state.
//
// Two states with the same keys and values — independent of map
// iteration or declaration order — produce the same key, because the
// canonical encoding sorts map keys recursively before hashing. The
// key distinguishes one dispatch context from another in the
// invocation tracker.
package statekey

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/xraph/graft"
	"github.com/xraph/graft/hook"
)

// Key is a 128-bit content hash of a canonically encoded state.
type Key struct {
	Hi, Lo uint64
}

// NoContext is the fixed well-known key for nil or empty state, used by
// hooks that carry no lifecycle context (e.g. PerformInstall) and
// therefore fire at most once per process.
var NoContext = Key{}

// String returns the key as 32 hex digits.
func (k Key) String() string {
	return fmt.Sprintf("%016x%016x", k.Hi, k.Lo)
}

// Of derives the content key for st. Nil and empty states yield
// NoContext. States containing values outside the canonical vocabulary
// (maps with string keys, slices, strings, booleans, integers, floats,
// nil) fail fast with an error wrapping graft.ErrInvalidState.
func Of(st hook.State) (Key, error) {
	if len(st) == 0 {
		return NoContext, nil
	}

	var buf bytes.Buffer
	if err := encode(&buf, map[string]any(st)); err != nil {
		return Key{}, err
	}

	sum := xxh3.Hash128(buf.Bytes())
	return Key{Hi: sum.Hi, Lo: sum.Lo}, nil
}

// encode writes a canonical, type-tagged encoding of v. Strings are
// length-prefixed and map keys sorted so the encoding is injective and
// order-independent.
func encode(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteByte('z')
	case bool:
		buf.WriteByte('b')
		if t {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	case string:
		encodeString(buf, t)
	case int:
		encodeInt(buf, int64(t))
	case int8:
		encodeInt(buf, int64(t))
	case int16:
		encodeInt(buf, int64(t))
	case int32:
		encodeInt(buf, int64(t))
	case int64:
		encodeInt(buf, t)
	case uint:
		encodeUint(buf, uint64(t))
	case uint8:
		encodeUint(buf, uint64(t))
	case uint16:
		encodeUint(buf, uint64(t))
	case uint32:
		encodeUint(buf, uint64(t))
	case uint64:
		encodeUint(buf, t)
	case float32:
		encodeFloat(buf, float64(t))
	case float64:
		encodeFloat(buf, t)
	case []any:
		buf.WriteByte('l')
		for _, e := range t {
			if err := encode(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	case []string:
		buf.WriteByte('l')
		for _, e := range t {
			encodeString(buf, e)
		}
		buf.WriteByte('e')
	case map[string]any:
		return encodeMap(buf, t)
	case hook.State:
		return encodeMap(buf, map[string]any(t))
	case hook.Form:
		return encodeMap(buf, map[string]any(t))
	default:
		return fmt.Errorf("%w: unsupported value type %T", graft.ErrInvalidState, v)
	}
	return nil
}

func encodeMap(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('m')
	for _, k := range keys {
		encodeString(buf, k)
		if err := encode(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}

func encodeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('s')
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteByte(':')
	buf.WriteString(s)
}

func encodeInt(buf *bytes.Buffer, i int64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatInt(i, 10))
	buf.WriteByte(';')
}

func encodeUint(buf *bytes.Buffer, u uint64) {
	buf.WriteByte('u')
	buf.WriteString(strconv.FormatUint(u, 10))
	buf.WriteByte(';')
}

func encodeFloat(buf *bytes.Buffer, f float64) {
	buf.WriteByte('f')
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	buf.WriteByte(';')
}
