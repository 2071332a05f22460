// Package story turns a character, a situation and a length into a horror
// story by way of a remote text-generation model.
package story

import "fmt"

const promptFormat = `Write me a horror story with the character name "%s" and situation "%s" in %d lines.`

// BuildPrompt returns the instruction sent to the model. Inputs are
// interpolated verbatim.
func BuildPrompt(characterName, situation string, lineCount int) string {
	return fmt.Sprintf(promptFormat, characterName, situation, lineCount)
}
