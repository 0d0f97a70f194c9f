package exports

import (
	"regexp"
	"strings"
	"time"
)

const (
	// FilePrefix starts every export filename.
	FilePrefix = "notes-export-"

	// FileExt ends every export filename.
	FileExt = ".json"

	// isoLayout is ISO-8601 in UTC with millisecond precision.
	isoLayout = "2006-01-02T15:04:05.000Z07:00"

	// DayLayout is the calendar-day prefix of an encoded timestamp.
	DayLayout = "2006-01-02"
)

// filenamePattern matches notes-export-<name>-<timestamp>.json. The name is
// greedy, so it extends up to the last timestamp-shaped suffix.
var filenamePattern = regexp.MustCompile(
	`^notes-export-(.+)-(\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}(?:-\d{3})?Z?)\.json$`,
)

var timestampReplacer = strings.NewReplacer(":", "-", ".", "-")

// File is an export filename broken into its parts.
type File struct {
	// Name is the full filename, e.g. notes-export-alpha-2024-01-01T10-00-00-000Z.json
	Name string `json:"name"`

	// NodeName is the logical name the bundle was filed under.
	NodeName string `json:"nodeName"`

	// Timestamp is the encoded creation instant, e.g. 2024-01-01T10-00-00-000Z.
	Timestamp string `json:"timestamp"`
}

// Day returns the YYYY-MM-DD bucket of the file.
func (f File) Day() string {
	return f.Timestamp[:len(DayLayout)]
}

// Time decodes the embedded timestamp. Files written by this package always
// decode; ok is false for hand-made names with an unexpected shape.
func (f File) Time() (time.Time, bool) {
	ts := f.Timestamp
	if len(ts) < len("2006-01-02T15-04-05") {
		return time.Time{}, false
	}
	// 2006-01-02T15-04-05[-000][Z] -> 2006-01-02T15:04:05[.000]
	iso := []byte(strings.TrimSuffix(ts, "Z"))
	iso[13], iso[16] = ':', ':'
	if len(iso) > 19 {
		iso[19] = '.'
	}
	t, err := time.Parse("2006-01-02T15:04:05", string(iso))
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// FormatTimestamp renders t the way export filenames embed it.
func FormatTimestamp(t time.Time) string {
	iso := t.UTC().Format(isoLayout)
	return timestampReplacer.Replace(iso)
}

// Filename builds the export filename for a bundle filed at t.
func Filename(nodeName string, t time.Time) string {
	return FilePrefix + nodeName + "-" + FormatTimestamp(t) + FileExt
}

// Day returns the calendar day of t in UTC, in the same form as File.Day.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ParseFilename splits an export filename into its parts. Names that do not
// follow the grammar, including temporary files, report ok == false.
func ParseFilename(name string) (File, bool) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return File{}, false
	}
	return File{
		Name:      name,
		NodeName:  m[1],
		Timestamp: m[2],
	}, true
}
