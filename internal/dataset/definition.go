package dataset

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Definition describes one dataset in the config file. Platform and name
// identify the instrument; tag and inst_id select a data product variant.
type Definition struct {
	Platform          string           `yaml:"platform"`
	Name              string           `yaml:"name"`
	Tag               string           `yaml:"tag,omitempty"`
	InstID            string           `yaml:"inst_id,omitempty"`
	MultiFileDay      bool             `yaml:"multi_file_day,omitempty"`
	FileFormat        string           `yaml:"file_format,omitempty"`
	DirectoryFormat   string           `yaml:"directory_format,omitempty"`
	Delimiter         string           `yaml:"delimiter,omitempty"`
	TwoDigitYearBreak int              `yaml:"two_digit_year_break,omitempty"`
	Simulated         *SimulatedConfig `yaml:"simulated,omitempty"`
}

// SimulatedConfig replaces filesystem discovery with a synthetic daily
// file list spanning start through stop inclusive. Used by demo configs
// and tests.
type SimulatedConfig struct {
	Start string `yaml:"start"`
	Stop  string `yaml:"stop"`
}

func (s *SimulatedConfig) dates() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, s.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad simulated start date %q: %w", s.Start, err)
	}
	stop, err := time.Parse(dateLayout, s.Stop)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad simulated stop date %q: %w", s.Stop, err)
	}
	if stop.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("simulated stop date %s precedes start date %s", s.Stop, s.Start)
	}
	return start, stop, nil
}

// Validate checks that the definition can drive file discovery.
func (d Definition) Validate() error {
	if d.Platform == "" && d.Name == "" {
		return nil
	}
	if d.Name == "" {
		return fmt.Errorf("dataset %s: name is required", d.Label())
	}
	if d.Simulated != nil {
		_, _, err := d.Simulated.dates()
		return err
	}
	if d.Platform != "" && d.FileFormat == "" {
		return fmt.Errorf("dataset %s: file_format is required unless the dataset is simulated", d.Label())
	}
	return nil
}

// Label renders the identity fields as a single display string, skipping
// blanks.
func (d Definition) Label() string {
	return strings.Join(strings.Fields(strings.Join(
		[]string{d.Platform, d.Name, d.Tag, d.InstID}, " ")), " ")
}

// Find resolves a platform/name[/tag[/inst_id]] selector against the
// configured definitions.
func Find(defs []Definition, selector string) (Definition, error) {
	parts := strings.Split(selector, "/")
	if len(parts) < 2 || len(parts) > 4 {
		return Definition{}, fmt.Errorf("bad dataset selector %q, want platform/name[/tag[/inst_id]]", selector)
	}
	var tag, instID string
	if len(parts) > 2 {
		tag = parts[2]
	}
	if len(parts) > 3 {
		instID = parts[3]
	}
	for _, d := range defs {
		if d.Platform == parts[0] && d.Name == parts[1] && d.Tag == tag && d.InstID == instID {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("no dataset %q in the config", selector)
}
