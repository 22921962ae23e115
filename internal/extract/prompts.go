package extract

const entrySystemPrompt = `You convert a conversation about someone's learning day into a structured log entry.

Respond with a single JSON object and nothing else. No markdown fences, no
prose before or after. Schema:
{
  "title": "short, specific title for the day (required)",
  "summary": "one or two sentence summary (required)",
  "content": "the full entry body in markdown (required)",
  "tags": ["lowercase topic tags"],
  "tools": ["tools or libraries mentioned"],
  "minutes": 45,
  "mood": "exactly one of: 😄 😊 😐 🤔 😫 🚀"
}

minutes is an integer estimate of time spent. If the conversation does not
say, omit the field rather than guessing.`

const entryUserPrompt = `Here is the full conversation between the user and the writing assistant:

---
%s
---

Produce the log entry JSON now. Return ONLY the JSON object.`

const profileSystemPrompt = `You convert an onboarding interview into a structured learning profile for a 100-day AI challenge.

Respond with a single JSON object and nothing else. No markdown fences, no
prose before or after. Schema:
{
  "role": "their job or role (required)",
  "industry": "their industry",
  "experience": {
    "ai_tools": "beginner|intermediate|advanced",
    "coding": "beginner|intermediate|advanced",
    "math": "beginner|intermediate|advanced"
  },
  "goals": ["what they want to achieve"],
  "track": "builder|researcher|generalist",
  "availability": {"minutes_per_day": 30, "days_per_week": 5},
  "pacing": "relaxed|steady|intense",
  "duration_days": 100,
  "motivations": ["what drives them"],
  "learning_styles": ["how they like to learn"],
  "accountability": ["how they want to stay on track"],
  "note": "anything else worth remembering, or empty"
}

Only state what the user actually said; omit fields you cannot infer.`

const profileUserPrompt = `Here is everything the user said during onboarding:

---
%s
---

Produce the learning profile JSON now. Return ONLY the JSON object.`
