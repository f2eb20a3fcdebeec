package chat

// sectionSuggestions are the lazy suggestion chips offered per portfolio
// section, nudging visitors toward questions the corpus can actually answer.
var sectionSuggestions = map[string][]string{
	"home": {
		"What is your core leadership philosophy?",
		"Tell me about your technical background",
		"How do you scale engineering teams?",
	},
	"about": {
		"What is your management style?",
		"Tell me about your journey",
		"How do you handle conflict?",
	},
	"services": {
		"Tell me about Zero Trust Security",
		"How do you approach Cloud Migration?",
		"What is your compliance experience?",
	},
	"projects": {
		"What was your most challenging project?",
		"Tell me about the Connected Vehicle Architecture",
		"How did you optimize costs?",
	},
	"blog": {
		"Summarize your latest insights",
		"What are the key trends you see?",
		"Explain your view on AI agents",
	},
	"contact": {
		"How can we collaborate?",
		"Are you open to advisory roles?",
		"What is your consulting rate?",
	},
}

// devSuggestions replace the section chips in developer mode.
var devSuggestions = []string{
	"How does the RAG vector search work?",
	"Show me the source code for the scoring engine",
	"Explain the embedding cache",
	"What is the system prompt for the AI?",
	"How are the lazy suggestion chips implemented?",
}

// Suggestions returns the chips for a section. Developer mode overrides the
// section entirely; unknown sections fall back to the home set.
func Suggestions(section string, devMode bool) []string {
	if devMode {
		return append([]string{}, devSuggestions...)
	}
	chips, ok := sectionSuggestions[section]
	if !ok {
		chips = sectionSuggestions["home"]
	}
	return append([]string{}, chips...)
}
