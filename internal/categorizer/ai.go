package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"financeapp/statement-import/internal/logging"
)

// AIClient suggests a category label for a description. Implementations
// must be safe for sequential reuse; the pipeline never calls concurrently.
type AIClient interface {
	SuggestCategory(ctx context.Context, description string, labels []string) (string, error)
}

// GeminiClient implements AIClient against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed AIClient. The model name comes
// from configuration (ai.model).
func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger.WithField("component", "gemini"),
	}, nil
}

// SuggestCategory asks the model to pick exactly one of the given labels
// for the merchant description.
func (c *GeminiClient) SuggestCategory(ctx context.Context, description string, labels []string) (string, error) {
	prompt := fmt.Sprintf(`Categorize the following bank statement description:
%s

Assign it to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]`,
		description, strings.Join(labels, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	label := extractLabel(responseText, labels)

	c.logger.WithFields(
		logging.Field{Key: "description", Value: description},
		logging.Field{Key: "label", Value: label},
	).Debug("Gemini suggested category")

	return label, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// extractLabel pulls the chosen label out of the model response, accepting
// only labels from the offered list.
func extractLabel(response string, labels []string) string {
	var picked string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			picked = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
			break
		}
	}
	if picked == "" {
		picked = strings.TrimSpace(response)
	}
	for _, label := range labels {
		if strings.EqualFold(picked, label) {
			return label
		}
	}
	return ""
}
