package chat

import (
	"strings"
	"testing"
)

func TestAssemblePrompt_Order(t *testing.T) {
	got := assemblePrompt(PromptInput{
		Persona:    "PERSONA BLOCK",
		OwnerName:  "Raphael",
		DevMode:    true,
		Confidence: 0.2,
		Context:    "CONTEXT BLOCK",
		History:    []Turn{{Role: "user", Text: "hi"}, {Role: "model", Text: "hello"}},
		Question:   "what next?",
	})

	order := []string{
		"PERSONA BLOCK",
		"[MODE: DEVELOPER]",
		"[SYSTEM NOTE: LOW CONFIDENCE (20%)]",
		"[SYSTEM INJECTION: RELEVANT DATA FOUND]",
		"CONTEXT BLOCK",
		"[CONVERSATION SO FAR]",
		"user: hi",
		"model: hello",
		"user: what next?",
	}
	pos := -1
	for _, marker := range order {
		idx := strings.Index(got, marker)
		if idx < 0 {
			t.Fatalf("missing %q in prompt:\n%s", marker, got)
		}
		if idx < pos {
			t.Fatalf("%q out of order in prompt:\n%s", marker, got)
		}
		pos = idx
	}
}

func TestAssemblePrompt_NoContextGetsExplicitInstruction(t *testing.T) {
	got := assemblePrompt(PromptInput{
		Persona:    "P",
		Confidence: 0.9,
		Question:   "q",
	})
	if !strings.Contains(got, "[SYSTEM NOTE: NO RELEVANT DATA]") {
		t.Errorf("missing no-data instruction:\n%s", got)
	}
	if strings.Contains(got, "[SYSTEM INJECTION: RELEVANT DATA FOUND]") {
		t.Errorf("context header should be absent:\n%s", got)
	}
}

func TestAssemblePrompt_ConfidenceGate(t *testing.T) {
	base := PromptInput{Persona: "P", OwnerName: "Raphael", Context: "C", Question: "q"}

	base.Confidence = 0.5
	if strings.Contains(assemblePrompt(base), "LOW CONFIDENCE") {
		t.Error("hedge must not fire at exactly the threshold")
	}

	base.Confidence = 0.1
	got := assemblePrompt(base)
	if !strings.Contains(got, "[SYSTEM NOTE: LOW CONFIDENCE (10%)]") {
		t.Errorf("hedge missing below threshold:\n%s", got)
	}
	if !strings.Contains(got, "Raphael might want to clarify") {
		t.Errorf("hedge should name the owner:\n%s", got)
	}
}

func TestAssemblePrompt_PlainMode(t *testing.T) {
	got := assemblePrompt(PromptInput{
		Persona:    "P",
		Confidence: 0.9,
		Context:    "C",
		Question:   "q",
	})
	if strings.Contains(got, "[MODE: DEVELOPER]") {
		t.Error("developer addendum leaked into plain mode")
	}
	if strings.Contains(got, "[CONVERSATION SO FAR]") {
		t.Error("transcript section should be absent without history")
	}
}

func TestSuggestions(t *testing.T) {
	if got := Suggestions("projects", false); len(got) != 3 {
		t.Errorf("projects chips = %d, want 3", len(got))
	}
	if got := Suggestions("unknown-section", false); len(got) != 3 {
		t.Errorf("fallback chips = %d, want 3", len(got))
	}
	dev := Suggestions("projects", true)
	if len(dev) != 5 {
		t.Fatalf("dev chips = %d, want 5", len(dev))
	}
	if !strings.Contains(dev[0], "RAG") {
		t.Errorf("dev chips should lead with retrieval question: %v", dev)
	}

	// Callers get copies, not the backing arrays.
	dev[0] = "mutated"
	if Suggestions("projects", true)[0] == "mutated" {
		t.Error("Suggestions must return a copy")
	}
}
