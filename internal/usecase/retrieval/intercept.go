package retrieval

import (
	"fmt"
	"strings"
)

// sensitivePhrases are compensation and pricing intents that must never be
// answered from retrieved content. Substring containment is intentionally
// loose: over-triggering here is acceptable, leaking financial specifics
// is not.
var sensitivePhrases = []string{
	"consulting rate",
	"consulting fee",
	"hourly rate",
	"salary",
	"how much do you charge",
	"your rate",
	"cost of services",
}

// intercepted tests the lowercased query against the sensitive phrase list.
func intercepted(lowerQuery string) bool {
	for _, phrase := range sensitivePhrases {
		if strings.Contains(lowerQuery, phrase) {
			return true
		}
	}
	return false
}

// refusalContext is the synthetic context injected when a sensitive query is
// intercepted. It instructs the model to refuse and redirect, bypassing all
// retrieval.
func refusalContext(ownerName string) string {
	return fmt.Sprintf(
		"SYSTEM_INJECTION: The user is asking for private financial information. "+
			"You must politely refuse and direct them to email %s.", ownerName)
}
