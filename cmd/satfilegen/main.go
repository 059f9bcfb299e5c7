package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/satfiles/satfiles/internal/fileformat"
)

const dateLayout = "2006-01-02"

func main() {
	dir := flag.String("dir", ".", "Data directory root to populate")
	platform := flag.String("platform", "demo", "Platform directory component")
	name := flag.String("name", "inst", "Instrument directory component")
	tag := flag.String("tag", "", "Tag directory component (may be empty)")
	template := flag.String("template", "inst_{year:4d}{month:02d}{day:02d}_v{version:02d}.dat", "Filename template to render")
	start := flag.String("start", "2020-01-01", "First day to generate (YYYY-MM-DD)")
	stop := flag.String("stop", "2020-03-31", "Last day to generate (YYYY-MM-DD)")
	versions := flag.Int("versions", 1, "Versions to write per day (template needs a version field for >1)")
	emptyEvery := flag.Int("empty-every", 0, "Write every Nth file as zero bytes (0 = never)")
	size := flag.Int("size", 1024, "Payload bytes per non-empty file")
	seed := flag.Int64("seed", 0, "Payload seed (0 = time-based)")
	flag.Parse()

	g, err := fileformat.Compile(*template, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "template error: %v\n", err)
		os.Exit(1)
	}
	if *versions > 1 && !g.Has(fileformat.FieldVersion) {
		fmt.Fprintln(os.Stderr, "warning: --versions > 1 but template has no version field, files will overwrite each other")
	}

	first, err := time.Parse(dateLayout, *start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad start date: %v\n", err)
		os.Exit(1)
	}
	last, err := time.Parse(dateLayout, *stop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad stop date: %v\n", err)
		os.Exit(1)
	}
	if last.Before(first) {
		fmt.Fprintln(os.Stderr, "stop date precedes start date")
		os.Exit(1)
	}

	// Two-digit year templates take the year modulo 100 so 2020 renders as 20.
	shortYear := false
	for _, f := range g.Fields {
		if f.Kind == fileformat.FieldYear && f.Width == 2 {
			shortYear = true
		}
	}

	target := filepath.Join(*dir, *platform, *name, *tag)
	if err := os.MkdirAll(target, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir error: %v\n", err)
		os.Exit(1)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))
	payload := make([]byte, *size)

	var written, emptied int
	var totalBytes int64

	begin := time.Now()
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		for v := 1; v <= *versions; v++ {
			var values [fileformat.NumFieldKinds]int
			values[fileformat.FieldYear] = d.Year()
			if shortYear {
				values[fileformat.FieldYear] = d.Year() % 100
			}
			values[fileformat.FieldMonth] = int(d.Month())
			values[fileformat.FieldDay] = d.Day()
			values[fileformat.FieldVersion] = v

			fname, err := fileformat.Render(g, values)
			if err != nil {
				fmt.Fprintf(os.Stderr, "render error for %s v%d: %v\n", d.Format(dateLayout), v, err)
				os.Exit(1)
			}

			buf := payload
			if *emptyEvery > 0 && (written+1)%*emptyEvery == 0 {
				buf = nil
				emptied++
			} else {
				rng.Read(buf)
			}
			if err := os.WriteFile(filepath.Join(target, fname), buf, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "write error: %v\n", err)
				os.Exit(1)
			}
			written++
			totalBytes += int64(len(buf))
		}
	}
	elapsed := time.Since(begin)

	fmt.Printf("dir=%s template=%s seed=%d\n", target, *template, s)
	fmt.Printf("range: %s --- %s versions=%d\n", first.Format(dateLayout), last.Format(dateLayout), *versions)
	fmt.Printf("wrote: files=%d empty=%d bytes=%d in %v\n", written, emptied, totalBytes, elapsed)
	if elapsed.Seconds() > 0 {
		fmt.Printf("throughput: %.0f files/sec\n", float64(written)/elapsed.Seconds())
	}
}
