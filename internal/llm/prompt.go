package llm

import "fmt"

// BuildPrompt renders the single user-role instruction sent per resume: the
// owner's name, the extracted resume text, and the target JSON format.
func BuildPrompt(req Request) string {
	return fmt.Sprintf("Parse %s's resume by using the JSON format below.\n\n%s\n\n%s",
		req.Owner, req.ResumeText, req.ParsingFormat)
}
