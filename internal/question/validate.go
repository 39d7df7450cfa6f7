package question

import "strings"

const minQuestionLen = 10

// validateCreate normalizes and checks a submission against the field rules.
// It returns the trimmed input and a *ValidationError listing every violation.
func validateCreate(in CreateInput) (CreateInput, error) {
	in.QuestionText = strings.TrimSpace(in.QuestionText)
	in.Company = strings.TrimSpace(in.Company)
	in.Topic = strings.TrimSpace(in.Topic)
	in.Role = strings.TrimSpace(in.Role)

	verr := &ValidationError{}
	switch {
	case in.QuestionText == "":
		verr.add("questionText", "Question text is required")
	case len(in.QuestionText) < minQuestionLen:
		verr.add("questionText", "Question must be at least 10 characters")
	}
	if in.Company == "" {
		verr.add("company", "Company is required")
	}
	if in.Topic == "" {
		verr.add("topic", "Topic is required")
	}
	if in.Role == "" {
		verr.add("role", "Role is required")
	}
	switch {
	case in.Difficulty == "":
		verr.add("difficulty", "Difficulty is required")
	case !ValidDifficulty(in.Difficulty):
		verr.add("difficulty", "Difficulty must be Easy, Medium, or Hard")
	}
	return in, verr.orNil()
}

// validateUpdate checks only the fields present in the patch.
func validateUpdate(patch UpdateInput) (UpdateInput, error) {
	patch.QuestionText = strings.TrimSpace(patch.QuestionText)
	patch.Topic = strings.TrimSpace(patch.Topic)

	verr := &ValidationError{}
	if patch.QuestionText != "" && len(patch.QuestionText) < minQuestionLen {
		verr.add("questionText", "Question must be at least 10 characters")
	}
	if patch.Difficulty != "" && !ValidDifficulty(patch.Difficulty) {
		verr.add("difficulty", "Difficulty must be Easy, Medium, or Hard")
	}
	return patch, verr.orNil()
}
