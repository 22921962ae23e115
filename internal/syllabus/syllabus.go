package syllabus

import (
	"encoding/json"
	"strings"

	"github.com/learnstreak/coach/internal/extract"
)

// Syllabus is a day-by-day learning plan generated from an onboarding profile.
type Syllabus struct {
	Title string `json:"title"`
	Days  []Day  `json:"days"`
}

// Day is one day of the plan.
type Day struct {
	Day       int      `json:"day"`
	Topic     string   `json:"topic"`
	Goal      string   `json:"goal"`
	Minutes   int      `json:"minutes"`
	Resources []string `json:"resources"`
}

type rawSyllabus struct {
	Title string `json:"title"`
	Days  []struct {
		Day       json.RawMessage `json:"day"`
		Topic     string          `json:"topic"`
		Goal      string          `json:"goal"`
		Minutes   json.RawMessage `json:"minutes"`
		Resources json.RawMessage `json:"resources"`
	} `json:"days"`
}

// normalize validates the generated plan against the profile it was built
// for: days are renumbered sequentially, clamped to the profile's duration,
// and missing per-day minutes fall back to the user's daily availability.
func (r rawSyllabus) normalize(maxDays, defaultMinutes int) (*Syllabus, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, &extract.ExtractionError{Reason: "missing required field: title"}
	}
	if len(r.Days) == 0 {
		return nil, &extract.ExtractionError{Reason: "syllabus has no days"}
	}

	s := &Syllabus{Title: strings.TrimSpace(r.Title)}
	for i, d := range r.Days {
		if maxDays > 0 && i >= maxDays {
			break
		}
		if strings.TrimSpace(d.Topic) == "" {
			continue
		}
		s.Days = append(s.Days, Day{
			Day:       i + 1,
			Topic:     strings.TrimSpace(d.Topic),
			Goal:      strings.TrimSpace(d.Goal),
			Minutes:   asInt(d.Minutes, defaultMinutes),
			Resources: asStringList(d.Resources),
		})
	}
	if len(s.Days) == 0 {
		return nil, &extract.ExtractionError{Reason: "syllabus has no usable days"}
	}
	return s, nil
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
