// Package gemini augments the heuristic resume extractor with model-derived
// fields. The heuristic result is always the fallback: a model failure never
// fails extraction.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/hiringtools/cv-intake/internal/intake"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	// maxPromptTextRunes bounds how much resume text goes into one prompt.
	maxPromptTextRunes = 20000
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// fieldReply is the JSON object the model is asked to return.
type fieldReply struct {
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
	Skills    string `mapstructure:"skills"`
	Education string `mapstructure:"education"`
}

// Extractor decorates a base extractor with Gemini field extraction.
type Extractor struct {
	base      intake.ResumeExtractor
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(base intake.ResumeExtractor, generator contentGenerator, maxLogLength int, logger *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Extractor{
		base:      base,
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract runs the base extractor and then lets the model refine the
// structured fields. FullText always comes from the base extractor.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (*intake.ResumeFields, error) {
	fields, err := e.base.Extract(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(fields.FullText)

	e.logger.Debug("gemini field extraction request",
		zap.String("model", e.generator.Model()),
		zap.String("filename", filename),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Warn("gemini field extraction failed, keeping heuristic fields",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return fields, nil
	}

	reply, err := parseReply(raw)
	if err != nil {
		e.logger.Warn("unparseable gemini reply, keeping heuristic fields",
			zap.String("filename", filename),
			zap.String("reply_preview", truncate(raw, e.maxLogLen)),
			zap.Error(err),
		)
		return fields, nil
	}

	merge(fields, reply)
	return fields, nil
}

// merge overwrites heuristic fields with non-empty model values.
func merge(fields *intake.ResumeFields, reply *fieldReply) {
	if v := strings.TrimSpace(reply.Name); v != "" {
		fields.Name = v
	}
	if v := strings.TrimSpace(reply.Email); v != "" {
		fields.Email = v
	}
	if v := strings.TrimSpace(reply.Skills); v != "" {
		fields.Skills = v
	}
	if v := strings.TrimSpace(reply.Education); v != "" {
		fields.Education = v
	}
}

func buildPrompt(resumeText string) string {
	if runes := []rune(resumeText); len(runes) > maxPromptTextRunes {
		resumeText = string(runes[:maxPromptTextRunes])
	}
	return strings.ReplaceAll(promptTemplate, "{{RESUME_TEXT}}", resumeText)
}

func parseReply(raw string) (*fieldReply, error) {
	cleaned := extractJSON(strings.TrimSpace(raw))

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini reply: %w", err)
	}

	var reply fieldReply
	if err := mapstructure.Decode(data, &reply); err != nil {
		return nil, fmt.Errorf("decode gemini reply: %w", err)
	}
	return &reply, nil
}

// extractJSON strips markdown fences and surrounding prose, keeping the
// outermost object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
