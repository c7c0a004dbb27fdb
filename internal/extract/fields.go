package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hiringtools/cv-intake/internal/intake"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	yearRe  = regexp.MustCompile(`(19|20)\d{2}`)
	wordRe  = regexp.MustCompile(`[a-z0-9#+.]+`)
)

// skillVocabulary is the flat list of skills the extractor recognizes in
// resume text. Matching is deliberately simple; extraction quality is not a
// goal of this tool, only stable keys for dedup and a useful ledger column.
var skillVocabulary = []string{
	"python", "java", "javascript", "typescript", "golang", "c++", "c#",
	"sql", "nosql", "html", "css", "react", "angular", "vue", "node.js",
	"django", "flask", "spring", "docker", "kubernetes", "terraform",
	"aws", "gcp", "azure", "git", "linux", "jenkins", "ci/cd",
	"machine learning", "deep learning", "data analysis", "statistics",
	"excel", "tableau", "power bi", "r",
	"seo", "sem", "content marketing", "social media", "copywriting",
	"agile", "scrum", "project management", "product management",
	"recruiting", "onboarding", "payroll",
	"sales", "negotiation", "crm", "lead generation",
	"communication", "leadership", "teamwork",
}

var educationKeywords = []string{
	"bachelor", "master", "phd", "doctorate", "mba",
	"b.sc", "m.sc", "bsc", "msc", "b.tech", "m.tech", "b.a", "m.a",
	"university", "college", "institute", "diploma", "degree",
}

// DeriveFields applies the heuristic field extraction to already-extracted
// resume text.
func DeriveFields(text string) *intake.ResumeFields {
	return &intake.ResumeFields{
		Name:      guessName(text),
		Email:     emailRe.FindString(text),
		Skills:    matchSkills(text),
		Education: latestEducation(text),
		FullText:  text,
	}
}

// guessName takes the first early line that looks like a person's name
// rather than a heading, address or contact detail.
func guessName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, "@/:0123456789") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "curriculum") || strings.Contains(lower, "resume") || strings.Contains(lower, "cv") {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		return line
	}
	return ""
}

// matchSkills returns the sorted, deduplicated, comma-joined vocabulary hits.
func matchSkills(text string) string {
	lower := strings.ToLower(text)
	words := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(lower, -1) {
		words[w] = struct{}{}
	}

	found := make(map[string]struct{})
	for _, skill := range skillVocabulary {
		if strings.ContainsAny(skill, " /") {
			if strings.Contains(lower, skill) {
				found[skill] = struct{}{}
			}
			continue
		}
		if _, ok := words[skill]; ok {
			found[skill] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// latestEducation picks the education line carrying the most recent year, or
// the first education line when no year appears anywhere.
func latestEducation(text string) string {
	best := ""
	bestYear := -1

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isEducationLine(line) {
			continue
		}

		year := -1
		if m := yearRe.FindString(line); m != "" {
			year = int(m[0]-'0')*1000 + int(m[1]-'0')*100 + int(m[2]-'0')*10 + int(m[3]-'0')
		}
		if best == "" || year > bestYear {
			best = line
			bestYear = year
		}
	}
	return best
}

func isEducationLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range educationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
