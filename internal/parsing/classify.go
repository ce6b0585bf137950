// Package parsing turns posting documents into structured admission requirements
// using LLM classification and GPA normalization.
package parsing

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/internship-checker/internal/llm"
	"github.com/jonathan/internship-checker/internal/prompts"
	"github.com/jonathan/internship-checker/internal/schemas"
	"github.com/jonathan/internship-checker/internal/types"
)

// Classifier infers CV, transcript and GPA requirements from document text.
type Classifier struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewClassifier creates a Classifier that calls client at the standard tier.
func NewClassifier(client llm.Client, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{client: client, tier: llm.TierStandard, logger: logger}
}

// Classify sends text to the model once and returns the parsed requirements.
// Any failure is logged and yields types.DefaultRequirementResult.
func (c *Classifier) Classify(ctx context.Context, text string) types.RequirementResult {
	result, err := c.classify(ctx, text)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if pe, ok := err.(*ParseError); ok {
			fields = append(fields, zap.String("raw_response", pe.Raw))
		}
		c.logger.Warn("could not classify document, using defaults", fields...)
		return types.DefaultRequirementResult()
	}
	return result
}

func (c *Classifier) classify(ctx context.Context, text string) (types.RequirementResult, error) {
	prompt, err := BuildClassificationPrompt(text)
	if err != nil {
		return types.RequirementResult{}, &APICallError{Message: "failed to build prompt", Cause: err}
	}

	response, err := c.client.GenerateContent(ctx, prompt, c.tier)
	if err != nil {
		return types.RequirementResult{}, &APICallError{Message: "failed to generate content from LLM", Cause: err}
	}

	return ParseRequirementResponse(response)
}

// BuildClassificationPrompt embeds the document text in the classification prompt.
func BuildClassificationPrompt(text string) (string, error) {
	return prompts.Render(prompts.ClassificationFile, prompts.ClassifyRequirementsKey, map[string]string{
		"Content": text,
	})
}

// ParseRequirementResponse decodes a model response into a RequirementResult.
// Code fences are stripped and only the first balanced JSON object is decoded.
// A GPA already in "<value>/<scale>" form is kept; any other text goes
// through NormalizeGPA.
func ParseRequirementResponse(response string) (types.RequirementResult, error) {
	object := llm.ExtractJSONObject(llm.CleanJSONBlock(response))
	if object == "" {
		return types.RequirementResult{}, &ParseError{Message: "no JSON object in response", Raw: response}
	}

	if err := schemas.ValidateRequirementResult(object); err != nil {
		return types.RequirementResult{}, &ParseError{Message: "response does not match requirement schema", Raw: response, Cause: err}
	}

	var result types.RequirementResult
	if err := json.Unmarshal([]byte(object), &result); err != nil {
		return types.RequirementResult{}, &ParseError{Message: "failed to parse JSON response", Raw: response, Cause: err}
	}

	result.GPA = normalizeResultGPA(result.GPA)
	return result, nil
}

// normalizeResultGPA reformats answers already in "<value>/<scale>" form so
// they print like NormalizeGPA output ("7/10" becomes "7.0/10") and runs
// everything else through NormalizeGPA.
func normalizeResultGPA(gpa string) string {
	trimmed := strings.TrimSpace(gpa)
	if trimmed == types.NoGPA {
		return trimmed
	}
	if IsNormalizedGPA(trimmed) {
		value, scale, _ := strings.Cut(trimmed, "/")
		v, errV := strconv.ParseFloat(value, 64)
		s, errS := strconv.ParseFloat(scale, 64)
		if errV != nil || errS != nil {
			return trimmed
		}
		return formatValue(v) + "/" + formatScale(s)
	}
	return NormalizeGPA(gpa)
}
