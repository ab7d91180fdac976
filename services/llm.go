package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// LLMModelName is the GenAI backend model used for tag suggestion.
type LLMModelName int32

const (
	Flash25 LLMModelName = iota
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

// TagSuggestion is the model's read of one clothing photo.
type TagSuggestion struct {
	Category  string   `json:"category"`
	Style     string   `json:"style"`
	Seasons   []string `json:"seasons"`
	Occasions []string `json:"occasions"`

	InputTokenCount  int32 `json:"input_token_count"`
	OutputTokenCount int32 `json:"output_token_count"`
	TotalTokenCount  int32 `json:"total_token_count"`
}

type TagSuggester interface {
	SuggestTags(filePath string, modelName LLMModelName) (*TagSuggestion, error)
}

type GoogleTagSuggester struct{}

const tagSuggestionPrompt = `Analyze the clothing article in the photo and respond with JSON only:
{"category": one of [tops, bottoms, dresses, outerwear, shoes, hats, bags],
"style": "Basic" for neutral versatile pieces or "Statement" for bold standout pieces,
"seasons": subset of [Summer, Fall, Winter, Spring] the piece suits,
"occasions": subset of [Casual, Work, Dinner/Bar, Club/Fancy] the piece suits}.
No markdown fences, no commentary.`

func tryUploadGoogleStorage(ctx context.Context, client *genai.Client, filePath string) (*genai.File, error) {
	var genFile *genai.File
	var err error
	maxUploadTimes := 3
	for i := range maxUploadTimes {
		genFile, err = client.Files.UploadFromPath(ctx, filePath, &genai.UploadFileConfig{})
		if err == nil {
			fmt.Println("File uploaded successfully:", filePath, "Attempt:", i+1)
			return genFile, nil
		}
		fmt.Printf("Error uploading file %s, attempt %d: %v\n", filePath, i+1, err)
	}
	return nil, fmt.Errorf("failed to upload file to google storage after %d attempts: %s", maxUploadTimes, filePath)
}

func (GoogleTagSuggester) SuggestTags(filePath string, modelName LLMModelName) (*TagSuggestion, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	genFile, err := tryUploadGoogleStorage(ctx, client, filePath)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		{
			FileData: &genai.FileData{
				FileURI:  genFile.URI,
				MIMEType: genFile.MIMEType,
			},
		},
		{Text: tagSuggestionPrompt},
	}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		MaxOutputTokens: 2000,
		Temperature:     floatPointer(0.2),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: "You are a wardrobe assistant that tags clothing photos. Respond with the JSON object only."},
			},
		},
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}

	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("content violation: %s %s", filePath, result.PromptFeedback.BlockReasonMessage)
	}

	text := strings.TrimSpace(result.Text())
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var suggestion TagSuggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse tag suggestion %q: %v", text, err)
	}
	if result.UsageMetadata != nil {
		suggestion.InputTokenCount = result.UsageMetadata.PromptTokenCount
		suggestion.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
		suggestion.TotalTokenCount = result.UsageMetadata.TotalTokenCount
	}
	fmt.Println("Tag suggestion token usage, total:", suggestion.TotalTokenCount)

	return &suggestion, nil
}
