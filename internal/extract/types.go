package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Moods a log entry may carry. Anything else normalizes to DefaultMood.
var Moods = []string{"😄", "😊", "😐", "🤔", "😫", "🚀"}

const (
	DefaultMood    = "😐"
	DefaultMinutes = 30

	DefaultTrack        = "generalist"
	DefaultPacing       = "steady"
	DefaultLevel        = "beginner"
	DefaultDurationDays = 100
)

var (
	tracks  = []string{"builder", "researcher", "generalist"}
	pacings = []string{"relaxed", "steady", "intense"}
	levels  = []string{"beginner", "intermediate", "advanced"}
)

// Entry is the structured log entry extracted from a composer conversation.
// Immutable once returned; re-extraction produces a fresh instance.
type Entry struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Tools   []string `json:"tools"`
	Minutes int      `json:"minutes"`
	Mood    string   `json:"mood"`
}

// Profile is the learning profile extracted from an onboarding conversation.
type Profile struct {
	Role           string       `json:"role"`
	Industry       string       `json:"industry"`
	Experience     Experience   `json:"experience"`
	Goals          []string     `json:"goals"`
	Track          string       `json:"track"`
	Availability   Availability `json:"availability"`
	Pacing         string       `json:"pacing"`
	DurationDays   int          `json:"duration_days"`
	Motivations    []string     `json:"motivations"`
	LearningStyles []string     `json:"learning_styles"`
	Accountability []string     `json:"accountability"`
	Note           string       `json:"note"`
}

// Experience holds self-reported proficiency on three scales.
type Experience struct {
	AITools string `json:"ai_tools"`
	Coding  string `json:"coding"`
	Math    string `json:"math"`
}

// Availability is how much time the user can commit.
type Availability struct {
	MinutesPerDay int `json:"minutes_per_day"`
	DaysPerWeek   int `json:"days_per_week"`
}

// rawEntry decodes leniently: required strings are typed strictly, while
// cosmetic fields stay raw so a wrong-typed value falls back to its default
// instead of failing the whole extraction.
type rawEntry struct {
	Title   string          `json:"title"`
	Summary string          `json:"summary"`
	Content string          `json:"content"`
	Tags    json.RawMessage `json:"tags"`
	Tools   json.RawMessage `json:"tools"`
	Minutes json.RawMessage `json:"minutes"`
	Mood    json.RawMessage `json:"mood"`
}

func (r rawEntry) normalize() (*Entry, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, &ExtractionError{Reason: "missing required field: title"}
	}
	if strings.TrimSpace(r.Summary) == "" {
		return nil, &ExtractionError{Reason: "missing required field: summary"}
	}
	if strings.TrimSpace(r.Content) == "" {
		return nil, &ExtractionError{Reason: "missing required field: content"}
	}
	return &Entry{
		Title:   strings.TrimSpace(r.Title),
		Summary: strings.TrimSpace(r.Summary),
		Content: r.Content,
		Tags:    asStringList(r.Tags),
		Tools:   asStringList(r.Tools),
		Minutes: asInt(r.Minutes, DefaultMinutes),
		Mood:    asEnum(r.Mood, Moods, DefaultMood),
	}, nil
}

type rawProfile struct {
	Role           string          `json:"role"`
	Industry       string          `json:"industry"`
	Experience     json.RawMessage `json:"experience"`
	Goals          json.RawMessage `json:"goals"`
	Track          json.RawMessage `json:"track"`
	Availability   json.RawMessage `json:"availability"`
	Pacing         json.RawMessage `json:"pacing"`
	DurationDays   json.RawMessage `json:"duration_days"`
	Motivations    json.RawMessage `json:"motivations"`
	LearningStyles json.RawMessage `json:"learning_styles"`
	Accountability json.RawMessage `json:"accountability"`
	Note           string          `json:"note"`
}

func (r rawProfile) normalize() (*Profile, error) {
	if strings.TrimSpace(r.Role) == "" {
		return nil, &ExtractionError{Reason: "missing required field: role"}
	}

	var exp struct {
		AITools json.RawMessage `json:"ai_tools"`
		Coding  json.RawMessage `json:"coding"`
		Math    json.RawMessage `json:"math"`
	}
	_ = json.Unmarshal(r.Experience, &exp)

	var avail struct {
		MinutesPerDay json.RawMessage `json:"minutes_per_day"`
		DaysPerWeek   json.RawMessage `json:"days_per_week"`
	}
	_ = json.Unmarshal(r.Availability, &avail)

	return &Profile{
		Role:     strings.TrimSpace(r.Role),
		Industry: strings.TrimSpace(r.Industry),
		Experience: Experience{
			AITools: asEnum(exp.AITools, levels, DefaultLevel),
			Coding:  asEnum(exp.Coding, levels, DefaultLevel),
			Math:    asEnum(exp.Math, levels, DefaultLevel),
		},
		Goals: asStringList(r.Goals),
		Track: asEnum(r.Track, tracks, DefaultTrack),
		Availability: Availability{
			MinutesPerDay: asInt(avail.MinutesPerDay, 30),
			DaysPerWeek:   asInt(avail.DaysPerWeek, 5),
		},
		Pacing:         asEnum(r.Pacing, pacings, DefaultPacing),
		DurationDays:   asInt(r.DurationDays, DefaultDurationDays),
		Motivations:    asStringList(r.Motivations),
		LearningStyles: asStringList(r.LearningStyles),
		Accountability: asStringList(r.Accountability),
		Note:           strings.TrimSpace(r.Note),
	}, nil
}

func asStringList(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

func asInt(raw json.RawMessage, fallback int) int {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil || n <= 0 {
		return fallback
	}
	return n
}

func asEnum(raw json.RawMessage, allowed []string, fallback string) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fallback
	}
	s = strings.TrimSpace(s)
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a
		}
	}
	return fallback
}

// ExtractionError means no recovery strategy produced a usable object, or a
// required field was missing after a successful parse.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return "extraction failed: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }
