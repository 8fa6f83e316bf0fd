package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
)

// Default model names
const (
	DefaultAnswerModel   = "gemini-1.5-pro"
	DefaultQuestionModel = "gemini-1.5-flash"
	DefaultTimeout       = 30 * time.Second
)

// TextGenerator produces a text completion for a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiConfig configures a GeminiClient
type GeminiConfig struct {
	APIKey        string
	AnswerModel   string
	QuestionModel string
	Timeout       time.Duration // per call; zero means DefaultTimeout
}

// GeminiClient is the oracle backed by Google's Gemini models
type GeminiClient struct {
	answer   TextGenerator
	question TextGenerator
	timeout  time.Duration
	log      logger.Logger
	closer   func() error
}

// NewGeminiClient connects to Gemini with cfg.APIKey. The answer model grades
// responses; the question model is tuned for JSON board generation.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log logger.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.InvalidInput("missing Gemini API key")
	}
	if cfg.AnswerModel == "" {
		cfg.AnswerModel = DefaultAnswerModel
	}
	if cfg.QuestionModel == "" {
		cfg.QuestionModel = DefaultQuestionModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	answerModel := client.GenerativeModel(cfg.AnswerModel)

	questionModel := client.GenerativeModel(cfg.QuestionModel)
	questionModel.SetTemperature(1)
	questionModel.SetTopP(0.95)
	questionModel.SetTopK(64)
	questionModel.SetMaxOutputTokens(16384)
	questionModel.ResponseMIMEType = "application/json"

	g := NewClientWithGenerators(&genaiModel{model: answerModel}, &genaiModel{model: questionModel}, cfg.Timeout, log)
	g.closer = client.Close
	return g, nil
}

// NewClientWithGenerators builds a GeminiClient over arbitrary generators
func NewClientWithGenerators(answer, question TextGenerator, timeout time.Duration, log logger.Logger) *GeminiClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiClient{
		answer:   answer,
		question: question,
		timeout:  timeout,
		log:      log,
	}
}

// Close releases the underlying connection
func (g *GeminiClient) Close() error {
	if g.closer != nil {
		return g.closer()
	}
	return nil
}

// CheckAnswer asks the answer model to grade response
func (g *GeminiClient) CheckAnswer(ctx context.Context, clue, answer, response string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.answer.GenerateText(ctx, answerPrompt(clue, answer, response))
	if err != nil {
		return Verdict{}, errors.OracleTransport(err, "answer check failed")
	}
	g.log.Debug("Answer checked", "duration", time.Since(start))

	verdict, err := ParseVerdict(reply)
	if err != nil {
		g.log.Warn("Oracle reply violated verdict contract", "error", err)
		return Verdict{}, err
	}
	return verdict, nil
}

// GenerateBoard asks the question model for a board and validates its shape
func (g *GeminiClient) GenerateBoard(ctx context.Context) ([]models.ClueRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.question.GenerateText(ctx, boardPrompt)
	if err != nil {
		return nil, errors.OracleTransport(err, "board generation failed")
	}
	g.log.Debug("Board generated", "duration", time.Since(start), "bytes", len(reply))

	records, err := ParseBoard([]byte(reply))
	if err != nil {
		g.log.Warn("Generated board rejected", "error", err)
		return nil, err
	}
	return records, nil
}

// genaiModel adapts a genai model to TextGenerator
type genaiModel struct {
	model *genai.GenerativeModel
}

func (m *genaiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return getText(resp), nil
}

func getText(resp *genai.GenerateContentResponse) string {
	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
	}
	return text
}
