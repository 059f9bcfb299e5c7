package fileformat

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind identifies a value that can be embedded in a filename.
type FieldKind uint8

const (
	FieldYear FieldKind = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	FieldVersion
	FieldRevision
	FieldCycle

	// NumFieldKinds is the number of recognized field kinds.
	NumFieldKinds = int(FieldCycle) + 1
)

func (k FieldKind) String() string {
	switch k {
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day"
	case FieldHour:
		return "hour"
	case FieldMinute:
		return "minute"
	case FieldSecond:
		return "second"
	case FieldVersion:
		return "version"
	case FieldRevision:
		return "revision"
	case FieldCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// ParseFieldKind resolves a placeholder name from a filename template.
func ParseFieldKind(name string) (FieldKind, error) {
	switch name {
	case "year":
		return FieldYear, nil
	case "month":
		return FieldMonth, nil
	case "day":
		return FieldDay, nil
	case "hour":
		return FieldHour, nil
	case "minute":
		return FieldMinute, nil
	case "second":
		return FieldSecond, nil
	case "version":
		return FieldVersion, nil
	case "revision":
		return FieldRevision, nil
	case "cycle":
		return FieldCycle, nil
	default:
		return 0, fmt.Errorf("unknown field %q in filename template", name)
	}
}

// Field is one extractable placeholder in a filename template.
type Field struct {
	Kind  FieldKind
	Width int
}

// Grammar is the compiled form of a filename template. Fields holds the
// placeholders in template order and Blocks holds the literal runs around
// them, with len(Blocks) == len(Fields)+1. Literal '?' characters act as
// single-character wildcards in SearchPattern and are never extracted.
type Grammar struct {
	Template      string
	SearchPattern string
	Fields        []Field
	Blocks        []string
}

// Compile parses a filename template such as
// "inst_{year:4d}{month:02d}{day:02d}_v{version:02d}.dat" into a Grammar.
// Every placeholder must name a recognized field and carry an explicit
// width. With wildcard set, each placeholder becomes a single '*' in the
// search pattern instead of a run of '?' markers; this is the right choice
// for delimited filenames where field widths may vary.
func Compile(template string, wildcard bool) (*Grammar, error) {
	if template == "" {
		return nil, fmt.Errorf("empty filename template")
	}

	g := &Grammar{Template: template}
	var search, lit strings.Builder

	i := 0
	for i < len(template) {
		switch template[i] {
		case '{':
			rel := strings.IndexByte(template[i:], '}')
			if rel < 0 {
				return nil, fmt.Errorf("unclosed placeholder at offset %d in %q", i, template)
			}
			field, err := parsePlaceholder(template[i+1 : i+rel])
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", template, err)
			}
			for _, f := range g.Fields {
				if f.Kind == field.Kind {
					return nil, fmt.Errorf("template %q: field %q appears more than once", template, field.Kind)
				}
			}
			search.WriteString(lit.String())
			g.Blocks = append(g.Blocks, lit.String())
			lit.Reset()
			g.Fields = append(g.Fields, field)
			if wildcard {
				search.WriteByte('*')
			} else {
				search.WriteString(strings.Repeat("?", field.Width))
			}
			i += rel + 1
		case '}':
			return nil, fmt.Errorf("unmatched '}' at offset %d in %q", i, template)
		default:
			lit.WriteByte(template[i])
			i++
		}
	}

	search.WriteString(lit.String())
	g.Blocks = append(g.Blocks, lit.String())
	g.SearchPattern = search.String()
	return g, nil
}

// parsePlaceholder reads the "name:spec" body between braces. The width is
// the leading digit run of the spec, so both "4d" and "02d" work.
func parsePlaceholder(body string) (Field, error) {
	name, spec, ok := strings.Cut(body, ":")
	if !ok || spec == "" {
		return Field{}, fmt.Errorf("placeholder %q has no width spec", body)
	}
	kind, err := ParseFieldKind(name)
	if err != nil {
		return Field{}, err
	}
	width := 0
	for j := 0; j < len(spec); j++ {
		c := spec[j]
		if c < '0' || c > '9' {
			break
		}
		width = width*10 + int(c-'0')
	}
	if width == 0 {
		return Field{}, fmt.Errorf("placeholder %q needs an explicit width", body)
	}
	return Field{Kind: kind, Width: width}, nil
}

// Render produces the filename for values by filling the template's
// placeholders between its literal blocks. Values that overflow a field's
// declared width are rejected, so rendered names parse back to the same
// values.
func Render(g *Grammar, values [NumFieldKinds]int) (string, error) {
	var b strings.Builder
	for i, f := range g.Fields {
		b.WriteString(g.Blocks[i])
		v := values[f.Kind]
		if v < 0 {
			return "", fmt.Errorf("negative value %d for %s field", v, f.Kind)
		}
		s := strconv.Itoa(v)
		if len(s) > f.Width {
			return "", fmt.Errorf("value %d overflows %d-character %s field", v, f.Width, f.Kind)
		}
		for pad := f.Width - len(s); pad > 0; pad-- {
			b.WriteByte('0')
		}
		b.WriteString(s)
	}
	b.WriteString(g.Blocks[len(g.Fields)])
	return b.String(), nil
}

// Has reports whether the template contains the given field.
func (g *Grammar) Has(kind FieldKind) bool {
	for _, f := range g.Fields {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// Width returns the total character width of a name matching the template.
func (g *Grammar) Width() int {
	n := 0
	for _, b := range g.Blocks {
		n += len(b)
	}
	for _, f := range g.Fields {
		n += f.Width
	}
	return n
}
