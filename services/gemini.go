package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const coachInstruction = `You are FinMentor, a friendly personal finance coach for young earners in India.

Rules:
- Answer in plain, simple English. No jargon.
- Keep replies under 120 words, use short bullet points when listing steps.
- Amounts are in Indian rupees, write them as ₹12,000.
- Suggest budgeting, saving, emergency funds and low-cost index investing.
- Never recommend specific stocks, crypto or guaranteed-return schemes.
- If the question is not about money, gently steer back to personal finance.`

// GeminiService answers free-form questions that no canned template covers
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiService(ctx context.Context, apiKey, modelName string) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)
	model.SetMaxOutputTokens(400)

	// System instruction applies to every request
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(coachInstruction)},
	}

	return &GeminiService{
		client: client,
		model:  model,
	}, nil
}

// Advise sends one user message to Gemini and returns the text reply
func (s *GeminiService) Advise(ctx context.Context, message string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	reply := strings.TrimSpace(responseText.String())
	if reply == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return reply, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}
