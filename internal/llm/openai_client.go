// ABOUTME: OpenAI client for embeddings, translation, and course recommendations
// ABOUTME: Every call gets a per-attempt timeout and exponential backoff retries
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/course-recommender/internal/config"
	"github.com/harper/course-recommender/internal/models"
	"github.com/harper/course-recommender/internal/util"
)

const (
	// DefaultChatModel is the default model for query extraction and recommendations
	DefaultChatModel = "gpt-3.5-turbo-0125"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultTranslationModel is the default model for Finnish to English translation
	DefaultTranslationModel = "gpt-4o-mini"
	// MaxBatchSize is the number of inputs sent per embeddings request
	MaxBatchSize = 100

	translateTemperature = 0.1
)

// ErrNoAPIKey is returned when the client is built without credentials
var ErrNoAPIKey = errors.New("OpenAI API key is required")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey           string
	BaseURL          string
	ChatModel        string
	EmbeddingModel   string
	TranslationModel string
	Timeout          time.Duration
	MaxRetries       int
	RetryDelay       time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:           apiKey,
		ChatModel:        DefaultChatModel,
		EmbeddingModel:   DefaultEmbeddingModel,
		TranslationModel: DefaultTranslationModel,
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		RetryDelay:       2 * time.Second,
	}
}

// ConfigFrom maps the application config onto a ClientConfig
func ConfigFrom(cfg *config.Config) *ClientConfig {
	return &ClientConfig{
		APIKey:           cfg.OpenAIKey,
		BaseURL:          cfg.OpenAIBaseURL,
		ChatModel:        cfg.ChatModel,
		EmbeddingModel:   cfg.EmbeddingModel,
		TranslationModel: cfg.TranslationModel,
		Timeout:          cfg.Timeout,
		MaxRetries:       cfg.MaxRetries,
		RetryDelay:       cfg.RetryDelay,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client           *openai.Client
	chatModel        string
	embeddingModel   string
	translationModel string
	timeout          time.Duration
	maxRetries       int
	retryDelay       time.Duration
}

// NewOpenAIClient creates a client with custom configuration
func NewOpenAIClient(cfg *ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	c := &OpenAIClient{
		client:           openai.NewClientWithConfig(oc),
		chatModel:        cfg.ChatModel,
		embeddingModel:   cfg.EmbeddingModel,
		translationModel: cfg.TranslationModel,
		timeout:          cfg.Timeout,
		maxRetries:       cfg.MaxRetries,
		retryDelay:       cfg.RetryDelay,
	}
	if c.chatModel == "" {
		c.chatModel = DefaultChatModel
	}
	if c.embeddingModel == "" {
		c.embeddingModel = DefaultEmbeddingModel
	}
	if c.translationModel == "" {
		c.translationModel = DefaultTranslationModel
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	return c, nil
}

// ModelID returns the embedding model name
func (c *OpenAIClient) ModelID() string {
	return c.embeddingModel
}

// Embed returns the embedding of text after whitespace normalization
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.embed(ctx, []string{util.NormalizeText(text)})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in requests of MaxBatchSize, preserving input order
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(texts))

		batch := make([]string, 0, end-start)
		for _, t := range texts[start:end] {
			batch = append(batch, util.NormalizeText(t))
		}

		vecs, err := c.embed(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch starting at %d: %w", start, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *OpenAIClient) embed(ctx context.Context, inputs []string) ([][]float64, error) {
	vecs, err := util.Retry(ctx, c.maxRetries+1, c.retryDelay, func(ctx context.Context) ([][]float64, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: inputs,
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) != len(inputs) {
			return nil, fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(inputs))
		}

		data := resp.Data
		sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

		vecs := make([][]float64, len(data))
		for i, d := range data {
			vecs[i] = util.Float32To64(d.Embedding)
		}
		return vecs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	return vecs, nil
}

// Translate translates one Finnish chunk to English
func (c *OpenAIClient) Translate(ctx context.Context, chunk string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: translateSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: chunk},
	}
	out, err := c.complete(ctx, c.translationModel, messages, translateTemperature)
	if err != nil {
		return "", fmt.Errorf("failed to translate: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ExtractQuery turns a free-form user message into a semantic search query
func (c *OpenAIClient) ExtractQuery(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(extractQueryShots)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: extractQuerySystemPrompt})
	messages = append(messages, extractQueryShots...)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	out, err := c.complete(ctx, c.chatModel, messages, 0)
	if err != nil {
		return "", fmt.Errorf("failed to extract query: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RecommendCourses asks the chat model to pick the best of the retrieved courses
// and answer in Markdown
func (c *OpenAIClient) RecommendCourses(ctx context.Context, query string, courses []models.Course) (string, error) {
	retrieved, err := json.Marshal(courses)
	if err != nil {
		return "", fmt.Errorf("failed to encode courses: %w", err)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(recommendShots)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: recommendSystemPrompt})
	messages = append(messages, recommendShots...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("Query: %s Retrieved courses: %s", query, retrieved),
	})

	out, err := c.complete(ctx, c.chatModel, messages, 0)
	if err != nil {
		return "", fmt.Errorf("failed to recommend courses: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// complete runs one chat completion. A zero temperature is omitted from the
// request, leaving the model default.
func (c *OpenAIClient) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage, temperature float32) (string, error) {
	return util.Retry(ctx, c.maxRetries+1, c.retryDelay, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: temperature,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("no completion choices returned")
		}
		return resp.Choices[0].Message.Content, nil
	})
}
