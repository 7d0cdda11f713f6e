package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain"

	"gopkg.in/yaml.v3"
)

// Precision is the coarsest unit of time certainty claimed for an event.
type Precision string

const (
	PrecisionCentury Precision = "century"
	PrecisionDecade  Precision = "decade"
	PrecisionYear    Precision = "year"
	PrecisionMonth   Precision = "month"
	PrecisionDay     Precision = "day"
)

var precisionRank = map[Precision]int{
	PrecisionCentury: 1,
	PrecisionDecade:  2,
	PrecisionYear:    3,
	PrecisionMonth:   4,
	PrecisionDay:     5,
}

// Rank returns the precision's position in century < decade < year < month < day,
// or 0 for an unknown value.
func (p Precision) Rank() int {
	return precisionRank[p]
}

// TimePoint is a calendar point. Year 0 is 1 BCE, year -1 is 2 BCE.
type TimePoint struct {
	Year  int  `json:"year" yaml:"year"`
	Month *int `json:"month,omitempty" yaml:"month,omitempty"`
	Day   *int `json:"day,omitempty" yaml:"day,omitempty"`
}

// UnmarshalJSON requires year and rejects fractional components,
// so that a missing year is never read as year 0.
func (p *TimePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Year  *json.Number `json:"year"`
		Month *json.Number `json:"month"`
		Day   *json.Number `json:"day"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.NewValidationError("time", "time point must be an object with an integer year")
	}
	return p.assign((*string)(raw.Year), (*string)(raw.Month), (*string)(raw.Day))
}

// UnmarshalYAML applies the same rules as UnmarshalJSON to YAML input.
func (p *TimePoint) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return domain.NewValidationError("time", "time point must be a mapping with an integer year")
	}
	var raw struct {
		Year  *string `yaml:"year"`
		Month *string `yaml:"month"`
		Day   *string `yaml:"day"`
	}
	if err := value.Decode(&raw); err != nil {
		return domain.NewValidationError("time", "time point must be a mapping with an integer year")
	}
	return p.assign(raw.Year, raw.Month, raw.Day)
}

// assign parses the textual components of a decoded time point.
func (p *TimePoint) assign(year, month, day *string) error {
	if year == nil {
		return domain.NewValidationError("time", "year is required")
	}
	y, err := ParseYear(*year)
	if err != nil {
		return domain.NewValidationError("time", "year must be an integer between %d and %d", -config.MaxAbsYear, config.MaxAbsYear)
	}
	p.Year = y
	p.Month, p.Day = nil, nil
	if month != nil {
		m, err := integerOf(*month)
		if err != nil {
			return domain.NewValidationError("time", "month must be an integer")
		}
		p.Month = &m
	}
	if day != nil {
		d, err := integerOf(*day)
		if err != nil {
			return domain.NewValidationError("time", "day must be an integer")
		}
		p.Day = &d
	}
	return nil
}

// ParseYear reads a year written as an integer or an integral decimal
// such as "150.0". Years beyond config.MaxAbsYear are rejected.
func ParseYear(raw string) (int, error) {
	n, err := integerOf(raw)
	if err != nil {
		return 0, err
	}
	if n < -config.MaxAbsYear || n > config.MaxAbsYear {
		return 0, fmt.Errorf("year out of range: %s", raw)
	}
	return n, nil
}

// integerOf parses an integral number without wrapping on overflow.
func integerOf(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 0); err == nil {
		return int(n), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.Trunc(f) != f || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer: %s", raw)
	}
	return int(f), nil
}

// validate checks year, month and day ranges for the point named by field.
func (p TimePoint) validate(field string) error {
	if p.Year < -config.MaxAbsYear || p.Year > config.MaxAbsYear {
		return domain.NewValidationError(field+".year", "%s year must be between %d and %d", field, -config.MaxAbsYear, config.MaxAbsYear)
	}
	if p.Month != nil && (*p.Month < 1 || *p.Month > 12) {
		return domain.NewValidationError(field+".month", "%s month must be between 1 and 12", field)
	}
	if p.Day != nil && (*p.Day < 1 || *p.Day > 31) {
		return domain.NewValidationError(field+".day", "%s day must be between 1 and 31", field)
	}
	return nil
}

// FuzzyTime marks an approximate date with an optional plus/minus range.
type FuzzyTime struct {
	IsApprox         bool     `json:"isApprox" yaml:"isApprox"`
	ApproxRangeYears *float64 `json:"approxRangeYears,omitempty" yaml:"approxRangeYears,omitempty"`
	DisplayText      string   `json:"displayText,omitempty" yaml:"displayText,omitempty"`
}

// EventTime anchors an event on the historical timeline.
type EventTime struct {
	Start     TimePoint  `json:"start" yaml:"start"`
	End       *TimePoint `json:"end,omitempty" yaml:"end,omitempty"`
	Precision Precision  `json:"precision" yaml:"precision"`
	Fuzzy     *FuzzyTime `json:"fuzzy,omitempty" yaml:"fuzzy,omitempty"`
}

// MaxPrecision is the finest precision the supplied start fields support.
func (t EventTime) MaxPrecision() Precision {
	switch {
	case t.Start.Day != nil:
		return PrecisionDay
	case t.Start.Month != nil:
		return PrecisionMonth
	default:
		return PrecisionYear
	}
}

// EndYear is end.year when an end is present, otherwise start.year.
func (t EventTime) EndYear() int {
	if t.End != nil {
		return t.End.Year
	}
	return t.Start.Year
}

// Validate returns the first violated time invariant, or nil.
func (t EventTime) Validate() error {
	if err := t.Start.validate("start"); err != nil {
		return err
	}
	if t.End != nil {
		if err := t.End.validate("end"); err != nil {
			return err
		}
	}
	rank := t.Precision.Rank()
	if rank == 0 {
		return domain.NewValidationError("time.precision", "precision must be one of century, decade, year, month, day")
	}
	if rank > t.MaxPrecision().Rank() {
		return domain.NewValidationError("time.precision", "precision %s exceeds the supplied time fields", t.Precision)
	}
	if t.End != nil && t.Start.Year > t.End.Year {
		return domain.NewValidationError("time.end", "start year must not be after end year")
	}
	if t.Fuzzy != nil && t.Fuzzy.IsApprox {
		r := t.Fuzzy.ApproxRangeYears
		if r == nil || math.IsNaN(*r) || math.IsInf(*r, 0) || *r <= 0 {
			return domain.NewValidationError("time.fuzzy.approxRangeYears", "approxRangeYears must be a positive number when isApprox is set")
		}
	}
	return nil
}

// Clone returns a copy sharing no pointers with t.
func (t EventTime) Clone() EventTime {
	out := EventTime{Start: t.Start.clone(), Precision: t.Precision}
	if t.End != nil {
		end := t.End.clone()
		out.End = &end
	}
	if t.Fuzzy != nil {
		f := *t.Fuzzy
		if f.ApproxRangeYears != nil {
			r := *f.ApproxRangeYears
			f.ApproxRangeYears = &r
		}
		out.Fuzzy = &f
	}
	return out
}

func (p TimePoint) clone() TimePoint {
	out := TimePoint{Year: p.Year}
	if p.Month != nil {
		m := *p.Month
		out.Month = &m
	}
	if p.Day != nil {
		d := *p.Day
		out.Day = &d
	}
	return out
}

// TimePatch carries the time fields supplied on a partial update.
type TimePatch struct {
	Start     *TimePoint `json:"start,omitempty"`
	End       *TimePoint `json:"end,omitempty"`
	Precision *Precision `json:"precision,omitempty"`
	Fuzzy     *FuzzyTime `json:"fuzzy,omitempty"`
}

// Merge overrides the fields of t that p supplies.
func (t EventTime) Merge(p *TimePatch) EventTime {
	out := t.Clone()
	if p == nil {
		return out
	}
	if p.Start != nil {
		out.Start = p.Start.clone()
	}
	if p.End != nil {
		end := p.End.clone()
		out.End = &end
	}
	if p.Precision != nil {
		out.Precision = *p.Precision
	}
	if p.Fuzzy != nil {
		out.Fuzzy = EventTime{Fuzzy: p.Fuzzy}.Clone().Fuzzy
	}
	return out
}

// BCEYear converts a stored year to its BCE ordinal. ok is false for CE years.
func BCEYear(year int) (bce int, ok bool) {
	if year > 0 {
		return 0, false
	}
	return 1 - year, true
}

// FormatYear renders a stored year for display, e.g. 0 -> "1 BCE", -221 -> "222 BCE".
func FormatYear(year int) string {
	if bce, ok := BCEYear(year); ok {
		return fmt.Sprintf("%d BCE", bce)
	}
	return strconv.Itoa(year)
}
