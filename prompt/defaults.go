package prompt

import "fmt"

// Defaults returns built-in templates for translating from source to target.
func Defaults(source, target string) Templates {
	return Templates{
		KeySummary: fmt.Sprintf(
			"You are reviewing a %s program before it is translated to %s. "+
				"Summarise what the program does: its inputs, outputs, data structures "+
				"and any library calls that have no direct %s equivalent. "+
				"Do not write any code.", source, target, target),

		KeyPlan: fmt.Sprintf(
			"You are planning the translation of a %s program to %s. "+
				"Here are the notes gathered so far:\n\n{}\n\n"+
				"List the questions that must be answered to translate the program faithfully, "+
				"each followed by a short answer. Do not write any code.", source, target),

		KeyTranspile: fmt.Sprintf(
			"You translate %s programs to %s. The user sends the original program. "+
				"Reply with the complete %s program in a single fenced code block and nothing else. "+
				"Keep the behaviour identical, including output formatting.\n\n"+
				"Notes about the program:\n{}", source, target, target),

		KeyCompileErr: fmt.Sprintf(
			"The %s code you wrote does not parse:\n\n{}\n\n"+
				"Fix the error and reply with the complete corrected program in a single fenced code block.",
			target),

		KeyOutputErr: fmt.Sprintf(
			"The %s code you wrote parses, but its output differs from the original program:\n\n{}\n\n"+
				"Fix the behaviour and reply with the complete corrected program in a single fenced code block.",
			target),
	}
}
