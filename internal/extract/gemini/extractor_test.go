package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hiringtools/cv-intake/internal/intake"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

type stubBase struct {
	fields *intake.ResumeFields
	err    error
}

func (s *stubBase) Extract(_ context.Context, _ []byte, _ string) (*intake.ResumeFields, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.fields, nil
}

func heuristicFields() *intake.ResumeFields {
	return &intake.ResumeFields{
		Name:     "J Doe",
		Email:    "jdoe@example.com",
		Skills:   "python",
		FullText: "J Doe resume text",
	}
}

func TestExtractorRefinesFields(t *testing.T) {
	stub := &stubGenerator{response: `{"name": "Jane Doe", "email": "jane.doe@example.com", "skills": "python, go", "education": "MSc, 2019"}`}
	e := NewExtractor(&stubBase{fields: heuristicFields()}, stub, 0, zap.NewNop())

	fields, err := e.Extract(context.Background(), []byte("raw"), "cv.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fields.Name != "Jane Doe" || fields.Email != "jane.doe@example.com" {
		t.Fatalf("expected model fields to win: %+v", fields)
	}

	if fields.Education != "MSc, 2019" {
		t.Fatalf("unexpected education: %q", fields.Education)
	}

	if fields.FullText != "J Doe resume text" {
		t.Fatalf("full text must stay heuristic")
	}

	if !strings.Contains(stub.lastPrompt, "J Doe resume text") {
		t.Fatalf("expected prompt to carry the resume text")
	}
}

func TestExtractorToleratesCodeFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"name\": \"Jane Doe\"}\n```"}
	e := NewExtractor(&stubBase{fields: heuristicFields()}, stub, 0, zap.NewNop())

	fields, err := e.Extract(context.Background(), nil, "cv.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fields.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", fields.Name)
	}
}

func TestExtractorKeepsHeuristicsOnGenerationError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("model unavailable")}
	e := NewExtractor(&stubBase{fields: heuristicFields()}, stub, 0, zap.NewNop())

	fields, err := e.Extract(context.Background(), nil, "cv.pdf")
	if err != nil {
		t.Fatalf("a model failure must not fail extraction: %v", err)
	}

	if fields.Name != "J Doe" {
		t.Fatalf("expected heuristic fields to survive: %+v", fields)
	}
}

func TestExtractorKeepsHeuristicsOnGarbageReply(t *testing.T) {
	stub := &stubGenerator{response: "sorry, I cannot help with that"}
	e := NewExtractor(&stubBase{fields: heuristicFields()}, stub, 0, zap.NewNop())

	fields, err := e.Extract(context.Background(), nil, "cv.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fields.Name != "J Doe" {
		t.Fatalf("expected heuristic fields to survive: %+v", fields)
	}
}

func TestExtractorIgnoresEmptyModelValues(t *testing.T) {
	stub := &stubGenerator{response: `{"name": "  ", "email": "", "skills": "go"}`}
	e := NewExtractor(&stubBase{fields: heuristicFields()}, stub, 0, zap.NewNop())

	fields, err := e.Extract(context.Background(), nil, "cv.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fields.Name != "J Doe" || fields.Email != "jdoe@example.com" {
		t.Fatalf("blank model values must not clobber heuristics: %+v", fields)
	}

	if fields.Skills != "go" {
		t.Fatalf("unexpected skills: %q", fields.Skills)
	}
}

func TestExtractorPropagatesBaseError(t *testing.T) {
	e := NewExtractor(&stubBase{err: errors.New("unreadable pdf")}, &stubGenerator{}, 0, zap.NewNop())

	if _, err := e.Extract(context.Background(), nil, "cv.pdf"); err == nil {
		t.Fatalf("expected the base extractor error to propagate")
	}
}
