package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	openai "github.com/sashabaranov/go-openai"
)

// Classifier produces a hazard verdict for an image. The production
// implementation calls the vision model; tests substitute a stub.
type Classifier interface {
	Classify(ctx context.Context, imageURL string) (models.TriageResult, error)
}

const classifierPrompt = `You are a pet-safety triage assistant. Look at the image and identify the most prominent object a pet could ingest or contact. Respond with ONLY a JSON object, no prose, with these keys:
{"object_identified": string, "hazard_type": string, "toxicity_level": "none"|"low"|"moderate"|"high"|"severe", "immediate_action": string}`

type openaiClassifier struct {
	client ModelClient
	model  string
}

// NewClassifier creates the vision-model-backed hazard classifier.
func NewClassifier(client ModelClient, model string) Classifier {
	return &openaiClassifier{client: client, model: model}
}

func (c *openaiClassifier) Classify(ctx context.Context, imageURL string) (models.TriageResult, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: classifierPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("ERROR: [Classifier] Vision model call failed: %v", err)
		return models.TriageResult{}, fmt.Errorf("classifier call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.TriageResult{}, fmt.Errorf("classifier returned no choices")
	}

	verdict := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Some models wrap the JSON in a fenced block despite the instruction.
	verdict = strings.TrimPrefix(verdict, "```json")
	verdict = strings.TrimPrefix(verdict, "```")
	verdict = strings.TrimSuffix(verdict, "```")
	verdict = strings.TrimSpace(verdict)

	var result models.TriageResult
	if err := json.Unmarshal([]byte(verdict), &result); err != nil {
		log.Printf("ERROR: [Classifier] Failed to parse verdict '%.120s': %v", verdict, err)
		return models.TriageResult{}, fmt.Errorf("failed to parse classifier verdict: %w", err)
	}
	if result.ObjectIdentified == "" {
		return models.TriageResult{}, fmt.Errorf("classifier verdict missing object_identified")
	}
	return result, nil
}
