package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// naiveLayout matches timestamps written without a zone offset. They are
// read in local time.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ErrInvalidDocument is returned by Unmarshal when the JSON is well-formed
// but an entry is missing a required field.
var ErrInvalidDocument = errors.New("invalid data file")

// Marshal encodes a document as indented JSON with a trailing newline.
// Nil slices and maps are written as empty values, never as null.
func Marshal(doc *Document) ([]byte, error) {
	normalized := *doc
	normalized.Projects = make([]Project, len(doc.Projects))
	for i, p := range doc.Projects {
		p.SubActivities = normalizeSubActivities(p.SubActivities)
		p.TimeRecords = normalizeRecords(p.TimeRecords)
		normalized.Projects[i] = p
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&normalized); err != nil {
		return nil, fmt.Errorf("failed to encode data file: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a data file. A missing "projects" key is
// an empty project list. Every project and sub-activity needs an alias.
// Record dates are taken from their map keys.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}

	for i := range doc.Projects {
		p := &doc.Projects[i]
		if strings.TrimSpace(p.Alias) == "" {
			return nil, fmt.Errorf("%w: project %d has no alias", ErrInvalidDocument, i)
		}
		p.TimeRecords = fixRecordDates(p.TimeRecords)
		for j := range p.SubActivities {
			sub := &p.SubActivities[j]
			if strings.TrimSpace(sub.Alias) == "" {
				return nil, fmt.Errorf("%w: sub-activity %d of project %q has no alias", ErrInvalidDocument, j, p.Alias)
			}
			sub.TimeRecords = fixRecordDates(sub.TimeRecords)
		}
	}
	return &doc, nil
}

// FormatTime formats a timestamp for the data file.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTime parses a data file timestamp. Timestamps with an offset and
// naive local timestamps are both accepted.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(naiveLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func normalizeSubActivities(subs []SubActivity) []SubActivity {
	out := make([]SubActivity, len(subs))
	for i, sub := range subs {
		sub.TimeRecords = normalizeRecords(sub.TimeRecords)
		out[i] = sub
	}
	return out
}

func normalizeRecords(records map[string]TimeRecord) map[string]TimeRecord {
	out := make(map[string]TimeRecord, len(records))
	for k, r := range records {
		if r.SubActivitySeconds == nil {
			r.SubActivitySeconds = map[string]int64{}
		}
		out[k] = r
	}
	return out
}

func fixRecordDates(records map[string]TimeRecord) map[string]TimeRecord {
	if records == nil {
		return map[string]TimeRecord{}
	}
	for k, r := range records {
		r.Date = k
		records[k] = r
	}
	return records
}
