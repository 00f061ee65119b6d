package calendar

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v2"
)

// Jurisdiction identifies a holiday table.
type Jurisdiction string

const (
	KR Jurisdiction = "KR"
	US Jurisdiction = "US"
)

//go:embed holidays.yaml
var defaultHolidaysYAML []byte

// Holiday is a single dated entry in a table.
type Holiday struct {
	Date civil.Date `json:"date"`
	Name string     `json:"name,omitempty"`
}

// Holidays is an immutable pair of holiday tables. Build a new value to
// change it; never modify one that a Calendar holds.
type Holidays struct {
	sets    map[Jurisdiction]map[civil.Date]string
	version string
}

type holidayFile struct {
	Version string        `yaml:"version"`
	KR      []holidayLine `yaml:"kr"`
	US      []holidayLine `yaml:"us"`
}

type holidayLine struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// NewHolidays builds tables from plain date lists.
func NewHolidays(kr, us []civil.Date) *Holidays {
	h := &Holidays{sets: map[Jurisdiction]map[civil.Date]string{
		KR: make(map[civil.Date]string, len(kr)),
		US: make(map[civil.Date]string, len(us)),
	}}
	for _, d := range kr {
		h.sets[KR][d] = ""
	}
	for _, d := range us {
		h.sets[US][d] = ""
	}
	return h
}

// DefaultHolidays returns the embedded tables.
func DefaultHolidays() *Holidays {
	h, err := ParseHolidays(defaultHolidaysYAML)
	if err != nil {
		panic(fmt.Sprintf("calendar: embedded holiday table is invalid: %v", err))
	}
	if h.version == "" {
		h.version = "embedded"
	}
	return h
}

// ParseHolidays decodes a YAML document with "kr" and "us" lists of
// {date, name} entries. Dates must be YYYY-MM-DD.
func ParseHolidays(data []byte) (*Holidays, error) {
	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode holiday table: %w", err)
	}

	h := &Holidays{
		sets:    make(map[Jurisdiction]map[civil.Date]string, 2),
		version: file.Version,
	}

	for j, lines := range map[Jurisdiction][]holidayLine{KR: file.KR, US: file.US} {
		set := make(map[civil.Date]string, len(lines))
		for i, line := range lines {
			d, err := civil.ParseDate(strings.TrimSpace(line.Date))
			if err != nil {
				return nil, fmt.Errorf("%s holiday %d: invalid date %q: %w", j, i+1, line.Date, err)
			}
			set[d] = line.Name
		}
		h.sets[j] = set
	}

	return h, nil
}

// LoadHolidaysFile reads and parses a holiday table from disk.
func LoadHolidaysFile(path string) (*Holidays, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file %s: %w", path, err)
	}
	h, err := ParseHolidays(data)
	if err != nil {
		return nil, err
	}
	if h.version == "" {
		h.version = path
	}
	return h, nil
}

// Contains reports whether d is a holiday in jurisdiction j.
func (h *Holidays) Contains(j Jurisdiction, d civil.Date) bool {
	if h == nil {
		return false
	}
	_, ok := h.sets[j][d]
	return ok
}

// List returns the holidays of j in date order, optionally restricted to a year.
// A year of 0 returns everything.
func (h *Holidays) List(j Jurisdiction, year int) []Holiday {
	if h == nil {
		return nil
	}
	out := make([]Holiday, 0, len(h.sets[j]))
	for d, name := range h.sets[j] {
		if year != 0 && d.Year != year {
			continue
		}
		out = append(out, Holiday{Date: d, Name: name})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out
}

// Len returns the number of holidays in j.
func (h *Holidays) Len(j Jurisdiction) int {
	if h == nil {
		return 0
	}
	return len(h.sets[j])
}

// Version identifies where the tables came from.
func (h *Holidays) Version() string {
	if h == nil {
		return ""
	}
	return h.version
}

// ParseJurisdiction accepts "kr"/"KR" and "us"/"US".
func ParseJurisdiction(s string) (Jurisdiction, error) {
	switch Jurisdiction(strings.ToUpper(strings.TrimSpace(s))) {
	case KR:
		return KR, nil
	case US:
		return US, nil
	default:
		return "", fmt.Errorf("unknown jurisdiction %q", s)
	}
}
