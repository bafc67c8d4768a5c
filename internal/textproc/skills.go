package textproc

import "strings"

var skillVocabulary = []string{
	"python", "aws", "sql", "machine learning", "data analysis",
	"lambda", "s3", "docker", "kubernetes", "api",
	"devops", "nlp", "flask", "django", "power bi", "excel",
}

// SkillVocabulary returns a copy of the known skill terms in match order.
func SkillVocabulary() []string {
	out := make([]string, len(skillVocabulary))
	copy(out, skillVocabulary)
	return out
}

// ExtractSkills lists the vocabulary terms found in text, in vocabulary order.
// Matching is plain substring containment on the lower-cased text, so "api"
// also matches inside "capital".
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}
