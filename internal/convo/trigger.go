package convo

import "strings"

// turnThreshold is the total message count beyond which extraction is
// attempted regardless of what the assistant said.
const turnThreshold = 4

// triggerPhrases are assistant phrasings that signal it has gathered enough.
// Model phrasing drifts, so this list is a replaceable constant and the
// manual "generate now" path in the API is the primary mechanism.
var triggerPhrases = []string{
	"enough information",
	"ready to create",
	"let me generate",
	"i have everything i need",
	"let's put this together",
}

// ShouldExtract reports whether the conversation has likely gathered enough
// information. Pure function so it is testable without any network.
func ShouldExtract(latestAssistantText string, turnCount int) bool {
	if turnCount > turnThreshold {
		return true
	}
	lower := strings.ToLower(latestAssistantText)
	for _, phrase := range triggerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
