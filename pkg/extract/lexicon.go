package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Term lexicons. These are fixed data tables scanned with word-boundary
// matching; there is deliberately no statistical model behind them.

var languageTerms = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "go", "rust",
	"ruby", "php", "swift", "kotlin", "scala", "r", "matlab", "sql",
}

var frameworkTerms = []string{
	"react", "vue", "angular", "django", "flask", "fastapi", "spring",
	"express", "rails", "laravel", "tensorflow", "pytorch", "pandas", "numpy",
}

var toolTerms = []string{
	"git", "github", "gitlab", "vscode", "vs code", "pycharm", "intellij",
	"aws", "azure", "gcp", "postgres", "postgresql", "mysql", "mongodb",
	"redis", "nginx", "apache", "docker", "kubernetes",
}

// roleTerms is ordered longest-phrase-first so that "senior software
// engineer" wins over "engineer". Keep that ordering when adding entries.
var roleTerms = []string{
	"senior software engineer",
	"junior software engineer",
	"senior data scientist",
	"junior data scientist",
	"software architect",
	"system architect",
	"senior architect",
	"junior developer",
	"senior developer",
	"senior engineer",
	"junior engineer",
	"lead developer",
	"product manager",
	"data scientist",
	"software engineer",
	"tech lead",
	"developer",
	"architect",
	"analyst",
	"programmer",
	"engineer",
	"scientist",
	"manager",
	"designer",
	"student",
	"researcher",
	"consultant",
	"lead",
	"senior",
	"junior",
	"intern",
}

// rolePhrases are the self-introduction prefixes a role term must follow.
var rolePhrases = []string{"i'm a ", "i am a ", "im a "}

// domainKeywords maps a technical domain to the keywords that indicate it.
// Matching is plain substring containment over the full conversation text,
// iterated in this fixed order for deterministic output.
var domainKeywords = []struct {
	Domain   string
	Keywords []string
}{
	{"web development", []string{"web", "frontend", "backend", "html", "css", "javascript", "react", "vue", "angular"}},
	{"data science", []string{"data", "analysis", "pandas", "numpy", "machine learning", "ml", "ai", "statistics"}},
	{"mobile development", []string{"mobile", "ios", "android", "swift", "kotlin", "react native", "flutter"}},
	{"devops", []string{"docker", "kubernetes", "aws", "azure", "deployment", "ci/cd", "infrastructure"}},
	{"database", []string{"database", "sql", "postgres", "mysql", "mongodb", "redis"}},
}

// genericTitles are conversation titles that carry no project signal.
var genericTitles = []string{"new chat", "untitled", "conversation", "chat"}

// intentPhrases signal that a message describes a project being worked on.
var intentPhrases = []string{
	"i'm working on", "im working on", "i am working on",
	"my project",
	"building",
	"developing",
	"creating",
	"project called",
	"project named",
	"started",
}

// nameTriggerWords start the bounded phrase taken as a candidate project name.
var nameTriggerWords = map[string]bool{
	"building":    true,
	"creating":    true,
	"developing":  true,
	"working":     true,
	"project":     true,
	"app":         true,
	"application": true,
	"system":      true,
}

// nameStopWords are function words stripped from candidate project names.
var nameStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "for": true, "to": true,
	"with": true, "on": true, "called": true, "named": true,
}

// challengeTriggers introduce a problem statement worth capturing.
var challengeTriggers = []string{
	"problem with",
	"issue with",
	"struggling with",
	"difficulty with",
	"challenge with",
	"error with",
	"bug in",
	"failing to",
	"can't get",
	"having trouble",
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// boundedAt reports whether text[start:end] sits on word boundaries.
func boundedAt(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// countTerm counts word-boundary occurrences of term in lowercased text.
// This is the single matching function shared by every lexicon category.
func countTerm(text, term string) int {
	count := 0
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(term)
		if boundedAt(text, start, end) {
			count++
		}
		from = start + 1
	}
	return count
}

// matchTerms returns the lexicon terms present in text, in lexicon order.
// Text must already be lowercased.
func matchTerms(text string, terms []string) []string {
	var out []string
	for _, term := range terms {
		if countTerm(text, term) > 0 {
			out = append(out, term)
		}
	}
	return out
}

// countTerms returns occurrence counts for every matched lexicon term.
func countTerms(text string, terms []string) map[string]int {
	counts := make(map[string]int)
	for _, term := range terms {
		if n := countTerm(text, term); n > 0 {
			counts[term] += n
		}
	}
	return counts
}
