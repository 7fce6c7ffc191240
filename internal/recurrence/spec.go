package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// Validation errors returned by Spec.Rule. These are caller mistakes, mapped
// to 400-level responses by the HTTP layer.
var (
	ErrUnknownKind    = errors.New("unknown recurrence kind")
	ErrBadEndDate     = errors.New("end date must be YYYY-MM-DD")
	ErrBadInterval    = errors.New("interval must be at least 1")
	ErrBadUnit        = errors.New("unknown interval unit")
	ErrEmptySelection = errors.New("select at least one week and weekday")
	ErrBadWeekday     = errors.New("weekdays must be 0 (Sunday) through 6 (Saturday)")
	ErrBadWeek        = errors.New("weeks of month must be 1 through 5")
)

// Rule kind tags used on the wire and in persisted recurring settings.
const (
	KindDaily          = "daily"
	KindWeekly         = "weekly"
	KindMonthly        = "monthly"
	KindYearly         = "yearly"
	KindInterval       = "interval"
	KindOrdinalWeekday = "ordinal_weekday"
)

// Spec is the serializable form of a recurrence rule, as accepted from HTTP
// clients and as persisted on RecurringSetting rows. Only the fields relevant
// to Kind may be set; Rule validates and narrows it into the proper Rule
// variant. Weekdays use 0=Sunday .. 6=Saturday.
type Spec struct {
	Kind         string `json:"kind,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Weekdays     []int  `json:"weekdays,omitempty"`
	Interval     int    `json:"interval,omitempty"`
	IntervalUnit string `json:"interval_unit,omitempty"`
	WeeksOfMonth []int  `json:"weeks_of_month,omitempty"`
}

// Rule validates the spec and returns the corresponding Rule variant.
func (s Spec) Rule() (Rule, error) {
	end, err := time.Parse(domain.DateFormat, s.EndDate)
	if err != nil {
		return nil, ErrBadEndDate
	}

	switch s.Kind {
	case KindDaily:
		return Daily{End: end}, nil

	case KindWeekly:
		weekdays, err := toWeekdays(s.Weekdays)
		if err != nil {
			return nil, err
		}
		return Weekly{End: end, Weekdays: weekdays}, nil

	case KindMonthly:
		return Monthly{End: end}, nil

	case KindYearly:
		return Yearly{End: end}, nil

	case KindInterval:
		if s.Interval < 1 {
			return nil, ErrBadInterval
		}
		unit := Unit(s.IntervalUnit)
		if !unit.Valid() {
			return nil, ErrBadUnit
		}
		return Interval{End: end, Every: s.Interval, Unit: unit}, nil

	case KindOrdinalWeekday:
		if len(s.WeeksOfMonth) == 0 || len(s.Weekdays) == 0 {
			return nil, ErrEmptySelection
		}
		for _, w := range s.WeeksOfMonth {
			if w < 1 || w > 5 {
				return nil, ErrBadWeek
			}
		}
		weekdays, err := toWeekdays(s.Weekdays)
		if err != nil {
			return nil, err
		}
		return OrdinalWeekday{End: end, Weeks: s.WeeksOfMonth, Weekdays: weekdays}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
}

// ParseSpec decodes a persisted (kind, end date, config JSON) triple back
// into a Spec. The dedicated columns win over any duplicate fields inside
// the config blob.
func ParseSpec(kind, endDate, config string) (Spec, error) {
	var s Spec
	if config != "" {
		if err := json.Unmarshal([]byte(config), &s); err != nil {
			return Spec{}, fmt.Errorf("decode recurrence config: %w", err)
		}
	}
	s.Kind = kind
	s.EndDate = endDate
	return s, nil
}

// ConfigJSON encodes the kind-specific payload for persistence. Kind and end
// date live in their own columns, so they are stripped from the blob.
func (s Spec) ConfigJSON() (string, error) {
	c := s
	c.Kind = ""
	c.EndDate = ""
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func toWeekdays(days []int) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, ErrBadWeekday
		}
		out = append(out, time.Weekday(d))
	}
	return out, nil
}
