package models

import (
	"strconv"
	"strings"

	"github.com/theory/jsonpath/spec"
)

// RootKey is the PathKey of the empty path. No other path encodes to it.
const RootKey PathKey = "$"

// PathKey is an opaque token derived from a Path for set membership. It is
// never parsed back into segments.
type PathKey string

// Segment is one step of a Path: an object key or an array index. Key always
// holds the string form, so index segments read as "0", "1", ...
type Segment struct {
	Key   string
	Index int // -1 for object keys
}

// KeySegment returns a segment addressing an object member
func KeySegment(key string) Segment {
	return Segment{Key: key, Index: -1}
}

// IndexSegment returns a segment addressing an array element
func IndexSegment(i int) Segment {
	return Segment{Key: strconv.Itoa(i), Index: i}
}

// IsIndex reports whether s addresses an array element
func (s Segment) IsIndex() bool { return s.Index >= 0 }

// Path locates a node relative to a specific root value.
type Path []Segment

// Append returns a new path extended by seg. The receiver is never shared
// with the result, so sibling paths built from the same parent stay distinct.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path without its last segment. The root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1:len(p)-1]
}

// Strings returns the string form of every segment
func (p Path) Strings() []string {
	out := make([]string, len(p))
	for i, seg := range p {
		out[i] = seg.Key
	}
	return out
}

// Key encodes p for expansion-state lookups. Object keys are length-prefixed
// so a key containing separator characters cannot collide with another path.
func (p Path) Key() PathKey {
	if len(p) == 0 {
		return RootKey
	}
	var b strings.Builder
	b.WriteString(string(RootKey))
	for _, seg := range p {
		if seg.IsIndex() {
			b.WriteByte('[')
			b.WriteString(seg.Key)
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(len(seg.Key)))
		b.WriteByte(':')
		b.WriteString(seg.Key)
	}
	return PathKey(b.String())
}

// Normalized converts p into an RFC 9535 normalized path.
func (p Path) Normalized() spec.NormalizedPath {
	np := make(spec.NormalizedPath, len(p))
	for i, seg := range p {
		if seg.IsIndex() {
			np[i] = spec.Index(seg.Index)
		} else {
			np[i] = spec.Name(seg.Key)
		}
	}
	return np
}

// String renders p as a normalized JSONPath such as $['data']['New text'][0].
func (p Path) String() string {
	return p.Normalized().String()
}

// Equal reports whether p and other address the same node
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes p as an array of segments, indices as numbers.
func (p Path) MarshalJSON() ([]byte, error) {
	items := make([]Value, len(p))
	for i, seg := range p {
		if seg.IsIndex() {
			items[i] = Number(float64(seg.Index))
		} else {
			items[i] = String(seg.Key)
		}
	}
	return Array(items...).MarshalJSON()
}
