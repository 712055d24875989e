// Package llm adapts a gollem LLM client to the narrow provider
// interfaces the turn pipeline depends on. Provider responses vary in
// shape by call mode; this is the single place where they are normalized
// to plain text.
package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
)

// Client wraps a gollem.LLMClient as both a ResponseGenerator and an
// Embedder.
type Client struct {
	llm       gollem.LLMClient
	modelName string
}

var (
	_ interfaces.ResponseGenerator = &Client{}
	_ interfaces.Embedder          = &Client{}
)

// New creates a new adapter. modelName is only used to annotate replies.
func New(llmClient gollem.LLMClient, modelName string) *Client {
	return &Client{
		llm:       llmClient,
		modelName: modelName,
	}
}

// Generate invokes the provider exactly once and normalizes the response
// to a single text.
func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string) (*interfaces.Reply, error) {
	session, err := c.llm.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userMessage))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content")
	}

	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if text == "" {
		return nil, goerr.New("LLM returned no usable text")
	}

	return &interfaces.Reply{
		Text:  text,
		Model: c.modelName,
	}, nil
}

// Embed generates a float32 embedding for the given text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 {
		return nil, goerr.New("embedding generation returned no results")
	}

	embedding := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		embedding[i] = float32(v)
	}

	return embedding, nil
}
