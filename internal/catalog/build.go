package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/satfiles/satfiles/internal/fileformat"
)

// Build converts parsed filename records into sorted catalog entries.
//
// Each record's time is assembled from its year/month/day/hour/minute/second
// fields; day defaults to 1 and the clock fields to 0 when the template
// omits them. Records without a year or month have no time index and are
// dropped and reported, as are records carrying impossible calendar values.
//
// With twoDigitYearBreak > 0, years at or above the break gain 1900 and
// years below it gain 2000. Zero leaves years untouched.
//
// When several records share one time and the template has a version field,
// the highest version wins, ties broken by revision and then cycle. Without
// a version field the first record seen wins and the rest are reported.
func Build(records []fileformat.Record, g *fileformat.Grammar, twoDigitYearBreak int) ([]Entry, []fileformat.Issue) {
	if !g.Has(fileformat.FieldYear) || !g.Has(fileformat.FieldMonth) {
		issues := make([]fileformat.Issue, 0, len(records))
		for _, r := range records {
			issues = append(issues, fileformat.Issue{
				File:   r.File,
				Reason: fmt.Sprintf("template %q lacks a year or month field, no time index", g.Template),
			})
		}
		return nil, issues
	}

	type candidate struct {
		t             time.Time
		file          string
		ver, rev, cyc int
	}

	hasDay := g.Has(fileformat.FieldDay)
	hasVersion := g.Has(fileformat.FieldVersion)

	cands := make([]candidate, 0, len(records))
	var issues []fileformat.Issue
	for _, r := range records {
		year := r.Values[fileformat.FieldYear]
		if twoDigitYearBreak > 0 {
			if year >= twoDigitYearBreak {
				year += 1900
			} else {
				year += 2000
			}
		}
		month := r.Values[fileformat.FieldMonth]
		day := 1
		if hasDay {
			day = r.Values[fileformat.FieldDay]
		}
		hour := r.Values[fileformat.FieldHour]
		min := r.Values[fileformat.FieldMinute]
		sec := r.Values[fileformat.FieldSecond]

		t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
		if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day ||
			t.Hour() != hour || t.Minute() != min || t.Second() != sec {
			issues = append(issues, fileformat.Issue{
				File:   r.File,
				Reason: fmt.Sprintf("impossible calendar values year=%d month=%d day=%d %02d:%02d:%02d", year, month, day, hour, min, sec),
			})
			continue
		}
		cands = append(cands, candidate{
			t:    t,
			file: r.File,
			ver:  r.Values[fileformat.FieldVersion],
			rev:  r.Values[fileformat.FieldRevision],
			cyc:  r.Values[fileformat.FieldCycle],
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].t.Before(cands[j].t)
	})

	newer := func(a, b candidate) bool {
		if a.ver != b.ver {
			return a.ver > b.ver
		}
		if a.rev != b.rev {
			return a.rev > b.rev
		}
		return a.cyc > b.cyc
	}

	entries := make([]Entry, 0, len(cands))
	for i := 0; i < len(cands); {
		j := i + 1
		for j < len(cands) && cands[j].t.Equal(cands[i].t) {
			j++
		}
		switch {
		case j-i == 1:
			entries = append(entries, Entry{Time: cands[i].t, File: cands[i].file})
		case hasVersion:
			best := i
			for k := i + 1; k < j; k++ {
				if newer(cands[k], cands[best]) {
					best = k
				}
			}
			entries = append(entries, Entry{Time: cands[best].t, File: cands[best].file})
		default:
			entries = append(entries, Entry{Time: cands[i].t, File: cands[i].file})
			for k := i + 1; k < j; k++ {
				issues = append(issues, fileformat.Issue{
					File:   cands[k].file,
					Reason: "duplicate timestamp with no version field, keeping first file seen",
				})
			}
		}
		i = j
	}
	return entries, issues
}
