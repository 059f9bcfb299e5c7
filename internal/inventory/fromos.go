package inventory

import (
	"fmt"
	"path/filepath"

	"github.com/satfiles/satfiles/internal/catalog"
	"github.com/satfiles/satfiles/internal/fileformat"
	"github.com/satfiles/satfiles/internal/pathutil"
)

// FromOS discovers files under dataPath whose names match template and
// parses their timestamps into catalog entries. It is the standard
// ListFiles routine for datasets whose files live on the local filesystem.
// A non-empty delimiter switches name decomposition from fixed character
// positions to delimited tokens, which also permits variable-width fields.
// Names that match the search pattern but fail to parse are reported as
// issues, not errors.
func FromOS(dataPath, template string, twoDigitYearBreak int, delimiter string) ([]catalog.Entry, []fileformat.Issue, error) {
	if dataPath == "" {
		return nil, nil, fmt.Errorf("%w: FromOS requires a search path", ErrNoDataDir)
	}

	g, err := fileformat.Compile(template, delimiter != "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile filename template: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(dataPath, g.SearchPattern))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search %s: %w", dataPath, err)
	}
	prefix := pathutil.EnsureTrailingSep(dataPath)
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, pathutil.StripDirPrefix(m, prefix))
	}

	var (
		records []fileformat.Record
		issues  []fileformat.Issue
	)
	if delimiter != "" {
		records, issues = fileformat.ParseDelimited(files, g, delimiter)
	} else {
		records, issues = fileformat.ParseFixedWidth(files, g)
	}

	entries, buildIssues := catalog.Build(records, g, twoDigitYearBreak)
	return entries, append(issues, buildIssues...), nil
}
