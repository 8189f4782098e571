package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"menshub/internal/config"
	"menshub/internal/logger"
	"menshub/internal/repository"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// RewriteProvider rewrites article HTML in the requested tone.
type RewriteProvider interface {
	Name() string
	Rewrite(ctx context.Context, title, html, tone string) (string, error)
}

// Rewriter routes rewrite requests to a configured AI provider and stores
// the result back on the article as a draft revision.
type Rewriter struct {
	articles  repository.ArticleRepo
	providers map[string]RewriteProvider
	fallback  string
}

func NewRewriter(articles repository.ArticleRepo, cfg *config.Config) *Rewriter {
	r := &Rewriter{articles: articles, providers: make(map[string]RewriteProvider)}

	if cfg.OpenAIKey != "" {
		p := newOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
		r.providers[p.Name()] = p
		r.fallback = p.Name()
	}
	if cfg.AnthropicKey != "" {
		p := newAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel)
		r.providers[p.Name()] = p
		if r.fallback == "" {
			r.fallback = p.Name()
		}
	}
	return r
}

// Rewrite rewrites the article with the named provider ("" uses the default)
// and saves it. The article stays in draft until an editor republishes it.
func (r *Rewriter) Rewrite(ctx context.Context, articleID int64, provider, tone string) (string, error) {
	if provider == "" {
		provider = r.fallback
	}
	p, ok := r.providers[provider]
	if !ok {
		return "", fmt.Errorf("rewrite provider %q is not configured", provider)
	}

	article, err := r.articles.GetByID(ctx, articleID)
	if err != nil {
		return "", err
	}

	logger.Log.Info("service: rewriting article",
		zap.Int64("article_id", articleID),
		zap.String("provider", provider),
		zap.String("tone", tone),
	)

	rewritten, err := p.Rewrite(ctx, article.Title, article.Content, tone)
	if err != nil {
		logger.Log.Error("service: rewrite failed", zap.Int64("article_id", articleID), zap.Error(err))
		return "", err
	}

	article.Content = rewritten
	if err := r.articles.Update(ctx, article); err != nil {
		return "", err
	}
	return rewritten, nil
}

// Providers lists configured provider names.
func (r *Rewriter) Providers() []string {
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	return out
}

func rewritePrompt(title, html, tone string) string {
	if tone == "" {
		tone = "engaging and conversational"
	}
	return fmt.Sprintf(
		"Rewrite the following article in a %s tone for a men's lifestyle site. "+
			"Keep the HTML structure and all factual claims. Return only the rewritten HTML.\n\nTitle: %s\n\n%s",
		tone, title, html,
	)
}

// --- OpenAI over plain HTTP ---

type openAIProvider struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func newOpenAIProvider(apiKey, model string) *openAIProvider {
	return &openAIProvider{
		apiKey:     apiKey,
		model:      model,
		endpoint:   "https://api.openai.com/v1/chat/completions",
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Rewrite(ctx context.Context, title, html, tone string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are an editor for a men's lifestyle publication."},
			{"role": "user", "content": rewritePrompt(title, html, tone)},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// --- Anthropic via the official SDK ---

type anthropicProvider struct {
	client *anthropic.Client
	model  string
}

func newAnthropicProvider(apiKey, model string) *anthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicProvider{client: &client, model: model}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Rewrite(ctx context.Context, title, html, tone string) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 8192,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(rewritePrompt(title, html, tone))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("anthropic returned an empty response")
	}
	return strings.TrimSpace(text), nil
}
