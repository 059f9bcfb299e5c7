package fileformat

import (
	"fmt"
	"testing"
)

func TestCompileFixedWidthSearchPattern(t *testing.T) {
	g, err := Compile("inst_{year:4d}{month:02d}{day:02d}_v{version:02d}.dat", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if g.SearchPattern != "inst_????????_v??.dat" {
		t.Fatalf("unexpected search pattern: %q", g.SearchPattern)
	}
	wantFields := []Field{
		{FieldYear, 4},
		{FieldMonth, 2},
		{FieldDay, 2},
		{FieldVersion, 2},
	}
	if len(g.Fields) != len(wantFields) {
		t.Fatalf("unexpected fields: %+v", g.Fields)
	}
	for i, f := range wantFields {
		if g.Fields[i] != f {
			t.Fatalf("field %d: got %+v want %+v", i, g.Fields[i], f)
		}
	}
	wantBlocks := []string{"inst_", "", "", "_v", ".dat"}
	if len(g.Blocks) != len(wantBlocks) {
		t.Fatalf("unexpected blocks: %q", g.Blocks)
	}
	for i, b := range wantBlocks {
		if g.Blocks[i] != b {
			t.Fatalf("block %d: got %q want %q", i, g.Blocks[i], b)
		}
	}
	if g.Width() != len("inst_20200101_v01.dat") {
		t.Fatalf("unexpected width: %d", g.Width())
	}
}

func TestCompileWildcardSearchPattern(t *testing.T) {
	g, err := Compile("data_{year:4d}_{month:02d}_v{version:02d}.dat", true)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if g.SearchPattern != "data_*_*_v*.dat" {
		t.Fatalf("unexpected search pattern: %q", g.SearchPattern)
	}
}

func TestCompileKeepsDontCareMarkers(t *testing.T) {
	g, err := Compile("inst_{year:4d}_v??.cdf", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if g.SearchPattern != "inst_????_v??.cdf" {
		t.Fatalf("unexpected search pattern: %q", g.SearchPattern)
	}
	if len(g.Fields) != 1 || g.Fields[0].Kind != FieldYear {
		t.Fatalf("unexpected fields: %+v", g.Fields)
	}
	if g.Width() != len("inst_2020_v01.cdf") {
		t.Fatalf("unexpected width: %d", g.Width())
	}
}

func TestCompileRejectsBadTemplates(t *testing.T) {
	bad := []string{
		"",
		"inst_{epoch:4d}.dat",
		"inst_{year:d}.dat",
		"inst_{year}.dat",
		"inst_{year:4d.dat",
		"inst_year:4d}.dat",
		"inst_{year:4d}_{year:2d}.dat",
	}
	for _, tmpl := range bad {
		if _, err := Compile(tmpl, false); err == nil {
			t.Fatalf("expected error for template %q", tmpl)
		}
	}
}

func TestParseFixedWidthRoundTrip(t *testing.T) {
	g, err := Compile("inst_{year:4d}{month:02d}{day:02d}_v{version:02d}.dat", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	type fileCase struct {
		name                      string
		year, month, day, version int
	}
	cases := []fileCase{
		{year: 2020, month: 1, day: 1, version: 2},
		{year: 1999, month: 12, day: 31, version: 11},
		{year: 2008, month: 6, day: 15, version: 1},
	}
	files := make([]string, 0, len(cases))
	for i := range cases {
		cases[i].name = fmt.Sprintf("inst_%04d%02d%02d_v%02d.dat",
			cases[i].year, cases[i].month, cases[i].day, cases[i].version)
		files = append(files, cases[i].name)
	}
	// Names carrying a directory prefix must parse the same way.
	files = append(files, "2020/"+cases[0].name)

	records, issues := ParseFixedWidth(files, g)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if len(records) != len(files) {
		t.Fatalf("expected %d records, got %d", len(files), len(records))
	}
	for i, c := range cases {
		r := records[i]
		if r.Values[FieldYear] != c.year || r.Values[FieldMonth] != c.month ||
			r.Values[FieldDay] != c.day || r.Values[FieldVersion] != c.version {
			t.Fatalf("record %d: got %+v want %+v", i, r.Values, c)
		}
	}
	prefixed := records[len(records)-1]
	if prefixed.Values[FieldYear] != 2020 || prefixed.File != "2020/"+cases[0].name {
		t.Fatalf("prefixed record: %+v", prefixed)
	}
}

func TestParseFixedWidthSkipsBadNames(t *testing.T) {
	g, err := Compile("inst_{year:4d}{month:02d}{day:02d}.dat", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	files := []string{
		"inst_20200101.dat",
		"inst_2020.dat",
		"inst_2020ab01.dat",
	}
	records, issues := ParseFixedWidth(files, g)
	if len(records) != 1 || records[0].File != "inst_20200101.dat" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
}

func TestParseDelimited(t *testing.T) {
	g, err := Compile("data_{year:4d}_{month:02d}_{day:02d}_v{version:02d}.dat", true)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	files := []string{
		"data_2021_03_05_v12.dat",
		// A lone placeholder token may be wider than its declared width.
		"data_20211_03_05_v12.dat",
	}
	records, issues := ParseDelimited(files, g, "_")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	r := records[0]
	if r.Values[FieldYear] != 2021 || r.Values[FieldMonth] != 3 ||
		r.Values[FieldDay] != 5 || r.Values[FieldVersion] != 12 {
		t.Fatalf("unexpected values: %+v", r.Values)
	}
	if records[1].Values[FieldYear] != 20211 {
		t.Fatalf("unexpected wide year: %+v", records[1].Values)
	}
}

func TestParseDelimitedSkipsTokenMismatch(t *testing.T) {
	g, err := Compile("data_{year:4d}_{month:02d}.dat", true)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	records, issues := ParseDelimited([]string{
		"data_2021_03.dat",
		"data_2021.dat",
		"data_2021_03_extra.dat",
	}, g, "_")
	if len(records) != 1 || records[0].File != "data_2021_03.dat" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	g, err := Compile("inst_{year:4d}{month:02d}{day:02d}_v{version:02d}.dat", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var values [NumFieldKinds]int
	values[FieldYear] = 2021
	values[FieldMonth] = 3
	values[FieldDay] = 7
	values[FieldVersion] = 4

	name, err := Render(g, values)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if name != "inst_20210307_v04.dat" {
		t.Fatalf("unexpected name: %q", name)
	}

	records, issues := ParseFixedWidth([]string{name}, g)
	if len(issues) != 0 || len(records) != 1 {
		t.Fatalf("parse back: records %+v issues %+v", records, issues)
	}
	if records[0].Values != values {
		t.Fatalf("round trip mismatch: got %+v want %+v", records[0].Values, values)
	}
}

func TestRenderRejectsOverflow(t *testing.T) {
	g, err := Compile("inst_{year:4d}_v{version:02d}.dat", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var values [NumFieldKinds]int
	values[FieldYear] = 2021
	values[FieldVersion] = 100
	if _, err := Render(g, values); err == nil {
		t.Fatal("expected overflow error for version 100 in a 2-character field")
	}

	values[FieldVersion] = -1
	if _, err := Render(g, values); err == nil {
		t.Fatal("expected error for negative version")
	}
}

func TestParseDelimitedPackedToken(t *testing.T) {
	g, err := Compile("sat.{year:4d}{month:02d}{day:02d}.v{version:01d}.nc", true)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	records, issues := ParseDelimited([]string{"sat.20190704.v3.nc"}, g, ".")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Values[FieldYear] != 2019 || r.Values[FieldMonth] != 7 ||
		r.Values[FieldDay] != 4 || r.Values[FieldVersion] != 3 {
		t.Fatalf("unexpected values: %+v", r.Values)
	}
}
