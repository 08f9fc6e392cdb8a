package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMarshal_WritesEmptyValuesNotNull(t *testing.T) {
	doc := &Document{
		Projects: []Project{{
			Name:          "Alpha",
			Alias:         "alpha",
			SubActivities: []SubActivity{{Name: "Dev", Alias: "dev"}},
			TimeRecords:   map[string]TimeRecord{"2024-01-15": {Date: "2024-01-15"}},
		}},
		Environment: "development",
	}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"time_records": {}`,
		`"sub_activity_seconds": {}`,
		`"current_project_alias": null`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal() output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"time_records": null`) || strings.Contains(out, `"sub_activity_seconds": null`) {
		t.Errorf("Marshal() wrote null collections:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Error("Marshal() output has no trailing newline")
	}
	if doc.Projects[0].SubActivities[0].TimeRecords != nil {
		t.Error("Marshal() modified the input document")
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		check   func(t *testing.T, doc *Document)
	}{
		{
			name: "missing projects key",
			data: `{"environment": "test"}`,
			check: func(t *testing.T, doc *Document) {
				if len(doc.Projects) != 0 || doc.Environment != "test" {
					t.Errorf("doc = %+v, want no projects in test", doc)
				}
			},
		},
		{
			name: "record dates come from keys",
			data: `{"projects": [{"name": "A", "alias": "a",
				"time_records": {"2024-01-15": {"date": "1999-01-01", "total_seconds": 5}},
				"sub_activities": [{"name": "D", "alias": "d",
					"time_records": {"2024-01-16": {"total_seconds": 3}}}]}]}`,
			check: func(t *testing.T, doc *Document) {
				r := doc.Projects[0].TimeRecords["2024-01-15"]
				if r.Date != "2024-01-15" || r.TotalSeconds != 5 {
					t.Errorf("project record = %+v, want date 2024-01-15 with 5s", r)
				}
				sr := doc.Projects[0].SubActivities[0].TimeRecords["2024-01-16"]
				if sr.Date != "2024-01-16" {
					t.Errorf("sub-activity record date = %q, want 2024-01-16", sr.Date)
				}
			},
		},
		{
			name: "missing time_records is empty",
			data: `{"projects": [{"name": "A", "alias": "a"}]}`,
			check: func(t *testing.T, doc *Document) {
				if doc.Projects[0].TimeRecords == nil {
					t.Error("TimeRecords = nil, want empty map")
				}
			},
		},
		{
			name:    "project without alias",
			data:    `{"projects": [{"name": "A", "alias": "  "}]}`,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "sub-activity without alias",
			data:    `{"projects": [{"name": "A", "alias": "a", "sub_activities": [{"name": "D"}]}]}`,
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Unmarshal([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			tt.check(t, doc)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		_, err := Unmarshal([]byte("{not json"))
		if err == nil || errors.Is(err, ErrInvalidDocument) {
			t.Errorf("Unmarshal() error = %v, want decode error", err)
		}
	})
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "utc",
			in:   "2024-01-15T10:30:00Z",
			want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "offset with fraction",
			in:   "2024-01-15T12:30:00.5+02:00",
			want: time.Date(2024, 1, 15, 10, 30, 0, 500_000_000, time.UTC),
		},
		{
			name: "naive is local",
			in:   "2024-01-15T10:30:00.123456",
			want: time.Date(2024, 1, 15, 10, 30, 0, 123_456_000, time.Local),
		},
		{
			name: "naive without fraction",
			in:   "2024-01-15T10:30:00",
			want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local),
		},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTime(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTime_ParsesBack(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 250_000_000, time.FixedZone("CET", 3600))
	got, err := ParseTime(FormatTime(ts))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ts) {
		t.Errorf("ParseTime(FormatTime()) = %v, want %v", got, ts)
	}
}
