package chat

import (
	"fmt"
	"strings"
)

// lowConfidenceThreshold gates the hedging addendum: retrievals below this
// confidence tell the model to qualify its answer out loud.
const lowConfidenceThreshold = 0.5

const developerAddendum = "[MODE: DEVELOPER] You are now in 'Code Archaeologist' mode. " +
	"You have access to the actual source code of this application. When answering, " +
	"cite specific files and lines of code if provided in the context. Explain the " +
	"architecture and logic like a senior principal engineer conducting a code " +
	"walkthrough. Be technical, precise, and transparent."

const contextHeader = "[SYSTEM INJECTION: RELEVANT DATA FOUND]\n" +
	"Use the following specific project details to answer the user's question:"

const noContextInstruction = "[SYSTEM NOTE: NO RELEVANT DATA] You have no specific " +
	"information on this topic. Answer generally from your stated expertise domains " +
	"and do not fabricate specifics."

// Turn is one prior exchange in the conversation transcript.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// PromptInput carries everything the assembler combines.
type PromptInput struct {
	Persona    string
	OwnerName  string
	DevMode    bool
	Confidence float64
	Context    string
	History    []Turn
	Question   string
}

// assemblePrompt builds the completion prompt in fixed order: persona, mode
// addendum, confidence hedge, retrieved context (or an explicit no-data
// instruction), conversation transcript, and the question. Pure string work;
// no network calls happen here.
func assemblePrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString(in.Persona)

	if in.DevMode {
		b.WriteString("\n\n")
		b.WriteString(developerAddendum)
	}

	if in.Confidence < lowConfidenceThreshold {
		pct := int(in.Confidence*100 + 0.5)
		fmt.Fprintf(&b,
			"\n\n[SYSTEM NOTE: LOW CONFIDENCE (%d%%)] The retrieved context is not very "+
				"strong for this query. Use the term \"I'm about %d%% sure on this\" or "+
				"\"%s might want to clarify\" to manage expectations.", pct, pct, in.OwnerName)
	}

	if in.Context != "" {
		b.WriteString("\n\n")
		b.WriteString(contextHeader)
		b.WriteString("\n")
		b.WriteString(in.Context)
	} else {
		b.WriteString("\n\n")
		b.WriteString(noContextInstruction)
	}

	if len(in.History) > 0 {
		b.WriteString("\n\n[CONVERSATION SO FAR]")
		for _, turn := range in.History {
			fmt.Fprintf(&b, "\n%s: %s", turn.Role, turn.Text)
		}
	}

	b.WriteString("\n\nuser: ")
	b.WriteString(in.Question)
	return b.String()
}
