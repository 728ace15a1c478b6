// Package gemini generates vocabulary flashcards with the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

const DefaultModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("empty model response")

// models is the part of *genai.Models the generator uses.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator asks a Gemini model for flashcards as structured JSON.
type Generator struct {
	models models
	model  string
	logger *zap.Logger
}

// NewGenerator creates a Generator backed by the Gemini Developer API.
func NewGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newGenerator(client.Models, model, logger), nil
}

func newGenerator(m models, model string, logger *zap.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{models: m, model: model, logger: logger}
}

// GenerateByLevel asks for count new words of a level, avoiding excludeIDs.
func (g *Generator) GenerateByLevel(ctx context.Context, level entities.Level, count int, excludeIDs []string) ([]entities.Fact, error) {
	if count <= 0 {
		return nil, nil
	}
	return g.generate(ctx, levelPrompt(level, count, excludeIDs))
}

// GenerateByIDs asks for the full cards of known words.
func (g *Generator) GenerateByIDs(ctx context.Context, ids []string) ([]entities.Fact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return g.generate(ctx, wordsPrompt(ids))
}

func (g *Generator) generate(ctx context.Context, prompt string) ([]entities.Fact, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   flashcardSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}

	facts, err := parseFacts(resp.Text())
	if err != nil {
		return nil, err
	}

	g.logger.Debug("facts generated",
		zap.String("model", g.model),
		zap.Int("count", len(facts)),
	)
	return facts, nil
}

func levelPrompt(level entities.Level, count int, excludeIDs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Generate %d new Kinyarwanda flashcards for a %s level learner. "+
			"Provide the word, its English meaning, and an example sentence in both languages.",
		count, strings.ToLower(string(level)),
	)
	if len(excludeIDs) > 0 {
		fmt.Fprintf(&b, " Do not include any of these words: %s.", strings.Join(excludeIDs, ", "))
	}
	return b.String()
}

func wordsPrompt(ids []string) string {
	return fmt.Sprintf(
		"Generate full flashcard details for the following Kinyarwanda words: %s. "+
			"For each word, provide its English meaning, and an example sentence in both Kinyarwanda and English. "+
			"Ensure the 'word' field in the response matches the requested word exactly.",
		strings.Join(ids, ", "),
	)
}

var flashcardSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"word": {
				Type:        genai.TypeString,
				Description: "A single Kinyarwanda word.",
			},
			"meaning": {
				Type:        genai.TypeString,
				Description: "The English translation of the Kinyarwanda word.",
			},
			"sentence_kinyarwanda": {
				Type:        genai.TypeString,
				Description: "An example sentence in Kinyarwanda using the word.",
			},
			"sentence_english": {
				Type:        genai.TypeString,
				Description: "The English translation of the example sentence.",
			},
		},
		Required: []string{"word", "meaning", "sentence_kinyarwanda", "sentence_english"},
	},
}

type card struct {
	Word                string `json:"word"`
	Meaning             string `json:"meaning"`
	SentenceKinyarwanda string `json:"sentence_kinyarwanda"`
	SentenceEnglish     string `json:"sentence_english"`
}

// parseFacts decodes the model's JSON array. Cards whose word has no usable
// identifier are skipped.
func parseFacts(text string) ([]entities.Fact, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var cards []card
	if err := json.Unmarshal([]byte(text), &cards); err != nil {
		return nil, fmt.Errorf("decode flashcards: %w", err)
	}

	facts := make([]entities.Fact, 0, len(cards))
	for _, c := range cards {
		f := entities.NewFact(
			strings.TrimSpace(c.Word),
			strings.TrimSpace(c.Meaning),
			strings.TrimSpace(c.SentenceKinyarwanda),
			strings.TrimSpace(c.SentenceEnglish),
		)
		if f.ID == "" {
			continue
		}
		facts = append(facts, f)
	}
	return facts, nil
}
