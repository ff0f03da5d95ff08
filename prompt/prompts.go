package prompt

import "fmt"

const collapseSystem = `You are the collapse-strategy arbiter of a cognitive signal engine.
Given activation metrics for a user turn, decide whether the final answer
should be synthesized deterministically (low temperature, for factual or
low-tension input) or probabilistically (high temperature, for emotionally
charged or contradictory input). Respond by calling the provided function.
Never answer in prose.`

const collapseUser = `Activated cores: {{join cores ", "}}
Average emotional weight: {{weight}}
Average contradiction score: {{contradiction}}

Original text (may be truncated):
{{truncate text 280}}

Decide the collapse strategy for this turn.`

const activationSystem = `You extract brain-core activation signals from text.
For every distinct cognitive core the text engages (memory, emotion, logic,
language, planning), report one activation with an intensity between 0 and 1.
Respond by calling the provided function once per activation. Never answer in
prose.{{#if language}}
The text is written in {{language}}.{{/if}}`

const activationUser = `{{#if context}}Conversation context:
{{truncate context 280}}

{{/if}}Text to analyze:
{{text}}`

var defaultEngine = NewEngine()

// CollapseDecision renders the system and user prompts for the
// collapse-strategy decision.
func CollapseDecision(cores []string, emotionalWeight, contradiction float64, text string) (system, user string, err error) {
	user, err = defaultEngine.Render(collapseUser, map[string]any{
		"cores":         cores,
		"weight":        fmt.Sprintf("%.3f", emotionalWeight),
		"contradiction": fmt.Sprintf("%.3f", contradiction),
		"text":          text,
	})
	if err != nil {
		return "", "", fmt.Errorf("render collapse prompt: %w", err)
	}
	return collapseSystem, user, nil
}

// ActivationExtraction renders the system and user prompts for activation
// signal extraction. context and language may be empty.
func ActivationExtraction(text, context, language string) (system, user string, err error) {
	system, err = defaultEngine.Render(activationSystem, map[string]any{
		"language": language,
	})
	if err != nil {
		return "", "", fmt.Errorf("render activation system prompt: %w", err)
	}
	user, err = defaultEngine.Render(activationUser, map[string]any{
		"context": context,
		"text":    text,
	})
	if err != nil {
		return "", "", fmt.Errorf("render activation user prompt: %w", err)
	}
	return system, user, nil
}
