package colname

// Entry maps one raw file header to its field.
type Entry struct {
	Raw   string
	Field Field
}

// Mapping is the raw header -> field relation for one file, in file order.
type Mapping []Entry

func (m Mapping) clone() Mapping {
	out := make(Mapping, len(m))
	copy(out, m)
	return out
}

// Has reports whether any raw header maps to f.
func (m Mapping) Has(f Field) bool {
	return m.Count(f) > 0
}

// Count returns the number of raw headers mapping to f.
func (m Mapping) Count(f Field) int {
	n := 0
	for _, e := range m {
		if e.Field == f {
			n++
		}
	}

	return n
}

// Raws lists the raw headers mapping to f.
func (m Mapping) Raws(f Field) []string {
	out := make([]string, 0)
	for _, e := range m {
		if e.Field == f {
			out = append(out, e.Raw)
		}
	}

	return out
}

// Lookup returns the field of a raw header.
func (m Mapping) Lookup(raw string) (Field, bool) {
	for _, e := range m {
		if e.Raw == raw {
			return e.Field, true
		}
	}

	return "", false
}

// Fields lists the distinct fields in order of first appearance.
func (m Mapping) Fields() []Field {
	seen := make(map[Field]struct{})
	out := make([]Field, 0, len(m))
	for _, e := range m {
		if _, ok := seen[e.Field]; ok {
			continue
		}
		seen[e.Field] = struct{}{}
		out = append(out, e.Field)
	}

	return out
}

// Without returns a copy of m with every header for f removed.
func (m Mapping) Without(f Field) Mapping {
	out := make(Mapping, 0, len(m))
	for _, e := range m {
		if e.Field != f {
			out = append(out, e)
		}
	}

	return out
}
