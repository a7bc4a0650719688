package orgsettings

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teemow/meetslot/internal/availability"
)

// DefaultDuration is the meeting length used when neither the caller nor the
// settings file names one.
const DefaultDuration = 60

// TimeRange is a start/end pair of times of day.
type TimeRange struct {
	Start MinuteOfDay `mapstructure:"start" json:"start" yaml:"start"`
	End   MinuteOfDay `mapstructure:"end" json:"end" yaml:"end"`
}

// MeetingPreferences holds grid and duration defaults.
type MeetingPreferences struct {
	IntervalMinutes int `mapstructure:"interval_minutes" json:"interval_minutes" yaml:"interval_minutes"`
	DefaultDuration int `mapstructure:"default_duration" json:"default_duration" yaml:"default_duration"`
}

// File is the on-disk representation of the settings.
type File struct {
	WorkHours          TimeRange          `mapstructure:"work_hours" json:"work_hours" yaml:"work_hours"`
	LunchWindow        TimeRange          `mapstructure:"lunch_window" json:"lunch_window" yaml:"lunch_window"`
	Penalties          map[string]float64 `mapstructure:"penalties" json:"penalties" yaml:"penalties"`
	Bonuses            map[string]float64 `mapstructure:"bonuses" json:"bonuses" yaml:"bonuses"`
	MeetingPreferences MeetingPreferences `mapstructure:"meeting_preferences" json:"meeting_preferences" yaml:"meeting_preferences"`
}

// Settings is a loaded policy.
type Settings struct {
	availability.OrgSettings
	DefaultDuration int
}

// requiredSections must be present in every settings file.
var requiredSections = []string{
	"work_hours.start",
	"work_hours.end",
	"lunch_window.start",
	"lunch_window.end",
}

// Default returns the built-in policy.
func Default() *Settings {
	return &Settings{
		OrgSettings: availability.OrgSettings{
			WorkHoursStart: 9 * 60,
			WorkHoursEnd:   17 * 60,
			LunchStart:     12 * 60,
			LunchEnd:       13 * 60,
			Penalties: map[string]float64{
				availability.PenaltyOutsideWorkHours:      50,
				availability.PenaltyOverlapsLunch:         20,
				availability.PenaltyEarlyMorning:          5,
				availability.PenaltyLateEvening:           5,
				availability.PenaltyWeekend:               40,
				availability.PenaltyFridayAfternoon:       10,
				availability.PenaltyNoMorningBuffer:       5,
				availability.PenaltyNoEveningBuffer:       5,
				availability.PenaltyPerAdditionalTimeZone: 5,
			},
			Bonuses: map[string]float64{
				availability.BonusOptimalTimeSlot: 10,
				availability.BonusMondayMorning:   5,
				availability.BonusInPersonMidday:  8,
				availability.BonusVirtualMeeting:  5,
			},
			IntervalMinutes: availability.DefaultIntervalMinutes,
		},
		DefaultDuration: DefaultDuration,
	}
}

// Load reads and validates a settings file. A missing file is reported with
// an error matching fs.ErrNotExist.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("org settings: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read org settings %s: %w", path, err)
	}

	s, err := Decode(v)
	if err != nil {
		return nil, fmt.Errorf("org settings %s: %w", path, err)
	}
	return s, nil
}

// Read parses settings of the given format ("json" or "yaml") from r.
func Read(r io.Reader, format string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to parse org settings: %w", err)
	}
	return Decode(v)
}

// Decode builds validated Settings from a viper instance holding a settings
// document.
func Decode(v *viper.Viper) (*Settings, error) {
	var missing []string
	for _, key := range requiredSections {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &availability.ConfigurationError{MissingKeys: missing}
	}

	v.SetDefault("meeting_preferences.interval_minutes", availability.DefaultIntervalMinutes)
	v.SetDefault("meeting_preferences.default_duration", DefaultDuration)

	var f File
	if err := v.Unmarshal(&f, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(MinuteOfDayHook()))); err != nil {
		return nil, &availability.ConfigurationError{Reason: err.Error()}
	}

	s := f.Settings()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Settings converts the file representation.
func (f File) Settings() *Settings {
	return &Settings{
		OrgSettings: availability.OrgSettings{
			WorkHoursStart:  int(f.WorkHours.Start),
			WorkHoursEnd:    int(f.WorkHours.End),
			LunchStart:      int(f.LunchWindow.Start),
			LunchEnd:        int(f.LunchWindow.End),
			Penalties:       maps.Clone(f.Penalties),
			Bonuses:         maps.Clone(f.Bonuses),
			IntervalMinutes: f.MeetingPreferences.IntervalMinutes,
		},
		DefaultDuration: f.MeetingPreferences.DefaultDuration,
	}
}

// File converts settings to their file representation.
func (s *Settings) File() File {
	return File{
		WorkHours:   TimeRange{Start: MinuteOfDay(s.WorkHoursStart), End: MinuteOfDay(s.WorkHoursEnd)},
		LunchWindow: TimeRange{Start: MinuteOfDay(s.LunchStart), End: MinuteOfDay(s.LunchEnd)},
		Penalties:   maps.Clone(s.Penalties),
		Bonuses:     maps.Clone(s.Bonuses),
		MeetingPreferences: MeetingPreferences{
			IntervalMinutes: s.IntervalMinutes,
			DefaultDuration: s.DefaultDuration,
		},
	}
}

// Write encodes s as "yaml" or "json".
func Write(w io.Writer, s *Settings, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s.File()); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.File()); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (want yaml or json)", format)
	}
}

// FormatFromPath returns the settings format implied by a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
