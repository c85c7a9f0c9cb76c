package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const ModelName = "gemini-2.5-flash"

// GeminiService generates narrative feedback drafts from analysis
// metrics. All output is advisory: teachers review, edit and approve
// every draft before it leaves the system.
type GeminiService struct {
	genaiClient *genai.Client
}

func NewGeminiService(apiKey string) *GeminiService {
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		slog.Error("Failed to create genai client", "error", err)
		return nil
	}

	return &GeminiService{genaiClient: genaiClient}
}

// QuestionContext carries the per-question metrics handed to the model.
type QuestionContext struct {
	QuestionID         string
	QuestionText       string
	TotalResponses     int
	AvgSimilarity      float64
	Difficulty         string
	UnderstandingLevel string
	CommonKeywords     []string
	ShortAnswers       int
}

// GenerateFeedbackNarrative produces a short teacher-facing narrative
// for one question. Returns an error when the model is unavailable so
// the caller can fall back to template feedback.
func (g *GeminiService) GenerateFeedbackNarrative(ctx context.Context, qc QuestionContext) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`You are assisting a teacher who is reviewing class-wide results for one assignment question.

Question: %s

Metrics computed from %d student responses:
- Average answer similarity: %.2f
- Difficulty classification: %s
- Understanding level: %s
- Common keywords: %s
- Responses shorter than five words: %d

Write 2-4 sentences of actionable feedback the teacher could share with the class. Be specific about what the metrics suggest and what to do next. Do not mention the metrics by name; translate them into plain teaching language.`,
		qc.QuestionText,
		qc.TotalResponses,
		qc.AvgSimilarity,
		qc.Difficulty,
		qc.UnderstandingLevel,
		strings.Join(qc.CommonKeywords, ", "),
		qc.ShortAnswers,
	)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are an experienced teaching assistant. You write concise, constructive classroom feedback. Never invent facts that the provided metrics do not support.",
			genai.RoleUser,
		),
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		ModelName,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback narrative: %w", err)
	}

	narrative := strings.TrimSpace(result.Text())
	if narrative == "" {
		return "", fmt.Errorf("model returned empty narrative")
	}

	slog.Info("Generated feedback narrative", "question_id", qc.QuestionID, "length", len(narrative))
	return narrative, nil
}

// GenerateClassSummary produces an overall class-level narrative across
// all analyzed questions.
func (g *GeminiService) GenerateClassSummary(ctx context.Context, assignmentTitle string, questions []QuestionContext) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var sb strings.Builder
	for _, qc := range questions {
		fmt.Fprintf(&sb, "- Question %s (%s, understanding %s, similarity %.2f): %s\n",
			qc.QuestionID, qc.Difficulty, qc.UnderstandingLevel, qc.AvgSimilarity, qc.QuestionText)
	}

	prompt := fmt.Sprintf(`A teacher analyzed the assignment %q. Per-question results:

%s
Write a short class-level summary (3-5 sentences): which questions went well, which need re-teaching, and one concrete next step.`,
		assignmentTitle, sb.String())

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		ModelName,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate class summary: %w", err)
	}

	return strings.TrimSpace(result.Text()), nil
}
