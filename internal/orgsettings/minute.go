package orgsettings

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// MinuteOfDay is a time of day in minutes after midnight. It is written as
// "HH:MM".
type MinuteOfDay int

// ParseMinuteOfDay accepts "HH:MM" or a plain minute count.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	s = strings.TrimSpace(s)
	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("invalid hour in %q", s)
		}
		minutes, err := strconv.Atoi(m)
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("invalid minute in %q", s)
		}
		return MinuteOfDay(hours*60 + minutes), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q (want HH:MM or minutes)", s)
	}
	return MinuteOfDay(n), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MarshalJSON implements json.Marshaler.
func (m MinuteOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// MarshalYAML implements yaml.Marshaler.
func (m MinuteOfDay) MarshalYAML() (any, error) {
	return m.String(), nil
}

var minuteOfDayType = reflect.TypeOf(MinuteOfDay(0))

// MinuteOfDayHook decodes "HH:MM" strings and numbers into MinuteOfDay.
func MinuteOfDayHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != minuteOfDayType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return ParseMinuteOfDay(v)
		case float64:
			return MinuteOfDay(int(v)), nil
		case int:
			return MinuteOfDay(v), nil
		default:
			return data, nil
		}
	}
}
