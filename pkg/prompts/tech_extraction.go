// Package prompts holds the prompt templates sent to the classification model.
package prompts

// TechExtractionSystemMessage returns the system message instructing the
// model to pull application, software, and programming-language names out of
// a user statement as a JSON object.
func TechExtractionSystemMessage() string {
	return `Return a JSON List of any application names, software technologies, or programming languages from a user statement of the following structure:

{
"application": [...list of applications]
}

For example, return {"application": ["NextJS", "Django", "PostgresSQL"]} from the sentence "NextJS + Django + PostgreSQL" or the sentence "I am most comfortable with NextJS, Django, and PostgresSQL".`
}
