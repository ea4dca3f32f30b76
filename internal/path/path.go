// Package path models locations inside a JSON document as a sequence of
// typed segments: array indices and object keys.
package path

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Segment is one step of a Path: either an array index or an object key.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Index returns a segment selecting element i of an array.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// Key returns a segment selecting member k of an object.
func Key(k string) Segment {
	return Segment{key: k}
}

// IsIndex reports whether the segment selects an array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Index returns the array index and whether the segment is an index.
func (s Segment) Index() (int, bool) { return s.index, s.isIndex }

// Key returns the object key and whether the segment is a key.
func (s Segment) Key() (string, bool) { return s.key, !s.isIndex }

// String renders the segment the way it appears in a JSON path.
func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	if identRegex.MatchString(s.key) {
		return "." + s.key
	}
	quoted, _ := json.Marshal(s.key)
	return "[" + string(quoted) + "]"
}

// Path addresses a value inside a document. The empty path is the root.
type Path []Segment

// Of builds a path from ints and strings.
// Of("b", 1) is the same as Path{Key("b"), Index(1)}.
func Of(parts ...interface{}) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case int:
			p = append(p, Index(v))
		case string:
			p = append(p, Key(v))
		case Segment:
			p = append(p, v)
		default:
			panic(fmt.Sprintf("path.Of: unsupported segment type %T", part))
		}
	}
	return p
}

// IsRoot reports whether p addresses the document root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Parent returns p without its last segment. The root's parent is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the terminal segment.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Append returns a new path with segs added. p is never modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Equal reports whether both paths have identical segments.
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

// String renders p as a JSON path, e.g. $.a["b c"][1].
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// Pointer renders p as an RFC 6901 JSON pointer.
func (p Path) Pointer() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(s.key))
	}
	return b.String()
}

// Parse reads a JSON path such as $.a["b c"][1]. The leading $ is optional.
func Parse(text string) (Path, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	p := Path{}

	for pos := 0; pos < len(s); {
		switch s[pos] {
		case '.':
			end := pos + 1
			for end < len(s) && s[end] != '.' && s[end] != '[' && s[end] != ']' {
				end++
			}
			name := s[pos+1 : end]
			if name == "" {
				return nil, fmt.Errorf("empty key at offset %d in %q", pos, text)
			}
			p = append(p, Key(name))
			pos = end
		case '[':
			seg, n, err := parseBracket(s[pos:])
			if err != nil {
				return nil, fmt.Errorf("%w at offset %d in %q", err, pos, text)
			}
			p = append(p, seg)
			pos += n
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d in %q", s[pos], pos, text)
		}
	}
	return p, nil
}

// parseBracket reads one [n] or ["key"] group and returns how many bytes it
// consumed.
func parseBracket(s string) (Segment, int, error) {
	if len(s) > 1 && s[1] == '"' {
		// find the closing quote, honouring escapes
		for i := 2; i < len(s); i++ {
			if s[i] == '\\' {
				i++
				continue
			}
			if s[i] == '"' {
				if i+1 >= len(s) || s[i+1] != ']' {
					return Segment{}, 0, fmt.Errorf("missing ]")
				}
				var key string
				if err := json.Unmarshal([]byte(s[1:i+1]), &key); err != nil {
					return Segment{}, 0, fmt.Errorf("invalid quoted key: %v", err)
				}
				return Key(key), i + 2, nil
			}
		}
		return Segment{}, 0, fmt.Errorf("unterminated quoted key")
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Segment{}, 0, fmt.Errorf("missing ]")
	}
	n, err := strconv.Atoi(s[1:end])
	if err != nil || n < 0 {
		return Segment{}, 0, fmt.Errorf("invalid index %q", s[1:end])
	}
	return Index(n), end + 1, nil
}
