package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const systemPrompt = `You are an AI onboarding assistant for AI Company, a software development company that specializes in building customized software using AI-powered tools.

Your role is to help new employees:
1. Understand company culture, values, and processes
2. Learn about the tools we use (Replit, Bolt, Lovable, Softr, Bubble, Framer AI)
3. Navigate their onboarding journey
4. Answer questions about their specific role
5. Provide guidance on best practices

Company Values:
- Innovation First: We embrace new ideas and technologies
- Customer Obsession: Every decision starts with customer needs
- Collaboration: Great things happen when we work together
- Continuous Learning: We grow by learning from successes and failures
- Integrity: We do the right thing, even when no one is watching

Key Tools We Use:
- Replit: AI-powered collaborative coding platform for building and deploying apps
- Bolt: AI code generation tool for rapid development
- Lovable: AI-first platform for building web applications conversationally
- Softr: No-code platform for building apps from Airtable or Google Sheets
- Bubble: Visual programming platform for web applications
- Framer AI: AI-powered design and prototyping tool

Be helpful, encouraging, and professional. Keep responses concise but informative.
If asked about specific technical implementation details you don't know, suggest they consult the relevant documentation or their team lead.`

// OpenAIConfig configures the OpenAI-compatible chat provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIClient implements Client against an OpenAI-compatible
// chat-completions endpoint. One request per reply, no retries; a slow
// provider stalls only the requesting call.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// DefaultOpenAIConfig returns sensible defaults.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-5",
	}
}

// NewOpenAIClient creates a new OpenAI-compatible client.
func NewOpenAIClient(config OpenAIConfig) *OpenAIClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		apiKey:     config.APIKey,
		baseURL:    config.BaseURL,
		model:      config.Model,
		httpClient: &http.Client{},
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model               string          `json:"model"`
	Messages            []openAIMessage `json:"messages"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateReply sends the learner's message with the onboarding system
// prompt and returns the assistant's reply text.
func (c *OpenAIClient) GenerateReply(ctx context.Context, message string, convCtx Context) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("chat provider API key not configured")
	}

	reqBody := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: buildSystemMessage(convCtx)},
			{Role: "user", Content: message},
		},
		MaxCompletionTokens: 1024,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse chat response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("chat provider error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat provider error: status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat provider returned empty reply")
	}
	return parsed.Choices[0].Message.Content, nil
}

func buildSystemMessage(convCtx Context) string {
	msg := systemPrompt
	if convCtx.Role.Valid() {
		msg += fmt.Sprintf("\n\nThe user is a %s at AI Company.", convCtx.Role.Label())
	}
	if convCtx.Name != "" {
		msg += fmt.Sprintf(" Their name is %s.", convCtx.Name)
	}
	return msg
}
