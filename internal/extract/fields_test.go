package extract

import (
	"strings"
	"testing"
)

const sampleResume = `Jane Doe
Senior Backend Developer
jane.doe@example.com | +1 555 123 4567

Experience with Python, Docker and Kubernetes.
Built CI/CD pipelines with Jenkins.

Education
B.Sc Computer Science, State University, 2017
M.Sc Software Engineering, State University, 2019
`

func TestDeriveFields(t *testing.T) {
	fields := DeriveFields(sampleResume)

	if fields.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", fields.Name)
	}

	if fields.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected email: %q", fields.Email)
	}

	for _, skill := range []string{"python", "docker", "kubernetes", "ci/cd", "jenkins"} {
		if !strings.Contains(fields.Skills, skill) {
			t.Fatalf("expected skill %q in %q", skill, fields.Skills)
		}
	}

	if !strings.Contains(fields.Education, "2019") {
		t.Fatalf("expected the most recent education line, got %q", fields.Education)
	}

	if fields.FullText != sampleResume {
		t.Fatalf("full text must be preserved")
	}
}

func TestGuessNameSkipsHeadings(t *testing.T) {
	text := "Curriculum Vitae\n\nJohn Q Smith\njohn@example.com\n"
	if got := guessName(text); got != "John Q Smith" {
		t.Fatalf("unexpected name: %q", got)
	}

	// Contact lines and single words never qualify.
	if got := guessName("Doe\njane@example.com\n+1 555 000 1111\n"); got != "" {
		t.Fatalf("expected no name, got %q", got)
	}
}

func TestMatchSkillsWordBoundaries(t *testing.T) {
	// "r" must match as a standalone token, not inside other words.
	got := matchSkills("strong developer")
	if got != "" {
		t.Fatalf("unexpected skills: %q", got)
	}

	got = matchSkills("worked with R and SQL daily")
	if got != "r, sql" {
		t.Fatalf("unexpected skills: %q", got)
	}

	got = matchSkills("machine learning on aws")
	if got != "aws, machine learning" {
		t.Fatalf("unexpected skills: %q", got)
	}
}

func TestLatestEducation(t *testing.T) {
	text := "Diploma in Design, 2008\nBachelor of Arts, 2012\nno year here\n"
	if got := latestEducation(text); got != "Bachelor of Arts, 2012" {
		t.Fatalf("unexpected education line: %q", got)
	}

	// Without any year the first education line wins.
	text = "University of Somewhere\nMaster studies ongoing\n"
	if got := latestEducation(text); got != "University of Somewhere" {
		t.Fatalf("unexpected education line: %q", got)
	}

	if got := latestEducation("plain prose only"); got != "" {
		t.Fatalf("expected empty education, got %q", got)
	}
}
