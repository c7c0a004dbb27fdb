package intake

import "strings"

// GeneralApplication is returned when no category keyword matches.
const GeneralApplication = "General Application"

// Category maps a job title to the keywords that select it. Categories are
// evaluated in declaration order, so the slice order is part of the contract.
type Category struct {
	Title    string   `mapstructure:"title"`
	Keywords []string `mapstructure:"keywords"`
}

// DefaultCategories is the built-in keyword mapping used when the
// configuration does not provide one.
var DefaultCategories = []Category{
	{Title: "Software Engineer", Keywords: []string{"software", "dev", "engineer", "backend", "frontend", "fullstack", "developer", "javascript", "python", "java", "c++", "react", "angular", "node.js"}},
	{Title: "Marketing Manager", Keywords: []string{"marketing", "manager", "campaign", "growth", "brand", "digital marketing", "seo", "sem", "content marketing", "social media"}},
	{Title: "Product Manager", Keywords: []string{"product", "pm", "product management", "roadmap", "ux/ui", "strategy", "agile", "scrum", "product owner"}},
	{Title: "Data Analyst", Keywords: []string{"data", "analyst", "science", "bi", "analytics", "sql", "python", "r", "excel", "tableau", "power bi", "statistics"}},
	{Title: "Human Resources", Keywords: []string{"hr", "human resources", "recruiter", "talent acquisition", "people operations", "onboarding", "employee relations", "benefits"}},
	{Title: "Sales Representative", Keywords: []string{"sales", "rep", "business development", "account executive", "client relations", "crm", "lead generation", "negotiation"}},
}

// Classifier assigns one job category to free text by keyword containment.
// Matching is plain substring search without word boundaries. Short keywords
// can therefore hit inside unrelated words; that imprecision is kept on
// purpose because boundary matching would change existing classifications.
type Classifier struct {
	categories []Category
}

func NewClassifier(categories []Category) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &Classifier{categories: categories}
}

// Classify joins the given text parts, case-folds them and returns the title
// of the first category with a keyword hit, or GeneralApplication.
func (c *Classifier) Classify(parts ...string) string {
	text := strings.ToLower(strings.Join(parts, " "))
	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(kw)) {
				return cat.Title
			}
		}
	}
	return GeneralApplication
}
