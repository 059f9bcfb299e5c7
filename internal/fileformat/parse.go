package fileformat

import (
	"fmt"
	"strconv"
	"strings"
)

// Record holds the integer values extracted from one filename. Values is
// indexed by FieldKind; entries for fields absent from the grammar stay
// zero, and Grammar.Has tells the two apart.
type Record struct {
	File   string
	Values [NumFieldKinds]int
}

// Issue describes a filename that was skipped during parsing and why.
// Parsers collect issues instead of failing the batch.
type Issue struct {
	File   string
	Reason string
}

// ParseFixedWidth extracts field values from filenames whose fields sit at
// fixed character offsets. Offsets are anchored at the end of the name, so
// names carrying a directory prefix still parse. Names that are too short
// or hold non-numeric field text are skipped and reported as issues.
func ParseFixedWidth(files []string, g *Grammar) ([]Record, []Issue) {
	if len(files) == 0 {
		return nil, nil
	}

	type span struct{ begin, end int }
	spans := make([]span, len(g.Fields))
	pos := 0
	for i, f := range g.Fields {
		pos += len(g.Blocks[i])
		spans[i] = span{pos, pos + f.Width}
		pos += f.Width
	}
	total := g.Width()

	records := make([]Record, 0, len(files))
	var issues []Issue
	for _, file := range files {
		if len(file) < total {
			issues = append(issues, Issue{File: file, Reason: "name shorter than template"})
			continue
		}
		base := len(file) - total
		rec := Record{File: file}
		ok := true
		for i, f := range g.Fields {
			raw := file[base+spans[i].begin : base+spans[i].end]
			v, err := strconv.Atoi(raw)
			if err != nil {
				issues = append(issues, Issue{
					File:   file,
					Reason: fmt.Sprintf("field %s: %q is not numeric", f.Kind, raw),
				})
				ok = false
				break
			}
			rec.Values[f.Kind] = v
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, issues
}

// ParseDelimited extracts field values from filenames split on a delimiter.
// Tokens matching a lone placeholder are consumed whole, which permits
// variable-width values; tokens packing several fields or literal text are
// decomposed by the widths recorded at compile time. Names with the wrong
// token count or non-numeric field text are skipped and reported.
func ParseDelimited(files []string, g *Grammar, delimiter string) ([]Record, []Issue) {
	if delimiter == "" {
		return ParseFixedWidth(files, g)
	}
	if len(files) == 0 {
		return nil, nil
	}

	toks := g.tokenize(delimiter)
	records := make([]Record, 0, len(files))
	var issues []Issue

	for _, file := range files {
		got := strings.Split(file, delimiter)
		if len(got) != len(toks) {
			issues = append(issues, Issue{
				File:   file,
				Reason: fmt.Sprintf("expected %d token(s) split on %q, found %d", len(toks), delimiter, len(got)),
			})
			continue
		}
		rec := Record{File: file}
		ok := true
		for ti := range toks {
			if !toks[ti].extract(g, got[ti], &rec, &issues) {
				ok = false
				break
			}
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, issues
}

// tokenPart is either a literal run (field < 0) or a field reference.
type tokenPart struct {
	lit   string
	field int
}

type token struct {
	parts []tokenPart
}

// tokenize splits the template into the tokens a delimited filename will
// produce. Literal blocks containing the delimiter start new tokens;
// placeholders never do.
func (g *Grammar) tokenize(delimiter string) []token {
	var toks []token
	var cur token
	flushLiteral := func(s string) {
		pieces := strings.Split(s, delimiter)
		for i, p := range pieces {
			if i > 0 {
				toks = append(toks, cur)
				cur = token{}
			}
			if p != "" {
				cur.parts = append(cur.parts, tokenPart{lit: p, field: -1})
			}
		}
	}
	for i := range g.Fields {
		flushLiteral(g.Blocks[i])
		cur.parts = append(cur.parts, tokenPart{field: i})
	}
	flushLiteral(g.Blocks[len(g.Fields)])
	toks = append(toks, cur)
	return toks
}

func (t *token) extract(g *Grammar, text string, rec *Record, issues *[]Issue) bool {
	if len(t.parts) == 1 && t.parts[0].field >= 0 {
		// Lone placeholder, take the whole token.
		return storeFieldValue(g.Fields[t.parts[0].field], text, rec, issues)
	}
	off := 0
	for _, part := range t.parts {
		if part.field < 0 {
			off += len(part.lit)
			continue
		}
		f := g.Fields[part.field]
		if off+f.Width > len(text) {
			*issues = append(*issues, Issue{
				File:   rec.File,
				Reason: fmt.Sprintf("token %q too short for field %s", text, f.Kind),
			})
			return false
		}
		if !storeFieldValue(f, text[off:off+f.Width], rec, issues) {
			return false
		}
		off += f.Width
	}
	return true
}

func storeFieldValue(f Field, raw string, rec *Record, issues *[]Issue) bool {
	v, err := strconv.Atoi(raw)
	if err != nil {
		*issues = append(*issues, Issue{
			File:   rec.File,
			Reason: fmt.Sprintf("field %s: %q is not numeric", f.Kind, raw),
		})
		return false
	}
	rec.Values[f.Kind] = v
	return true
}
