package syllabus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/learnstreak/coach/internal/extract"
	"github.com/learnstreak/coach/internal/llm"
)

const generateMaxTokens = 8192

// Generator turns a validated learning profile into a personalized syllabus.
// This is the slowest call in the service, so it carries its own budget
// (default 150s) rather than the conversational one.
type Generator struct {
	llm     *llm.Client
	timeout time.Duration
	logger  *slog.Logger
}

func New(client *llm.Client, timeout time.Duration, logger *slog.Logger) *Generator {
	return &Generator{llm: client, timeout: timeout, logger: logger}
}

// Generate asks the model for a day-by-day plan and recovers it through the
// same parse cascade the extractor uses.
func (g *Generator) Generate(ctx context.Context, profile *extract.Profile) (*Syllabus, error) {
	user := fmt.Sprintf(generateUserPrompt,
		profile.Role,
		profile.Industry,
		profile.Experience.AITools,
		profile.Experience.Coding,
		profile.Experience.Math,
		strings.Join(profile.Goals, "; "),
		profile.Track,
		profile.Availability.MinutesPerDay,
		profile.Availability.DaysPerWeek,
		profile.Pacing,
		profile.DurationDays,
	)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.llm.Complete(callCtx, generateSystemPrompt, []llm.Message{{Role: "user", Content: user}}, generateMaxTokens)
	if err != nil {
		return nil, err
	}

	obj, err := extract.RecoverJSON(raw)
	if err != nil {
		g.logger.Error("syllabus generation unrecoverable", "error", err, "raw", raw)
		return nil, &extract.ExtractionError{Reason: "no strategy recovered a JSON object", Err: err}
	}

	var rs rawSyllabus
	if err := json.Unmarshal(obj, &rs); err != nil {
		return nil, &extract.ExtractionError{Reason: "recovered object has wrong shape", Err: err}
	}

	syl, err := rs.normalize(profile.DurationDays, profile.Availability.MinutesPerDay)
	if err != nil {
		return nil, err
	}

	g.logger.Info("syllabus generated", "title", syl.Title, "days", len(syl.Days))
	return syl, nil
}

const generateSystemPrompt = `You design day-by-day learning syllabi for people doing a personal AI learning challenge.

Respond with a single JSON object and nothing else. No markdown fences, no
prose. Schema:
{
  "title": "name of the plan (required)",
  "days": [
    {"day": 1, "topic": "string", "goal": "what they should be able to do after", "minutes": 30, "resources": ["links or names"]}
  ]
}

Each day must build on the previous ones. Match the depth to the stated
experience levels and keep each day inside the stated daily minutes.`

const generateUserPrompt = `Build a syllabus for this learner:

Role: %s
Industry: %s
Experience — AI tools: %s, coding: %s, math: %s
Goals: %s
Track: %s
Availability: %d minutes/day, %d days/week
Pacing: %s
Duration: %d days

Return ONLY the JSON object.`
