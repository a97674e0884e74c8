package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"BlogPublisher/internal/config"
	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
)

// OpenAIGenerator produces articles through an OpenAI-compatible
// chat-completions API. Any transport, protocol or format problem is
// returned as an error; the caller decides whether to fall back.
type OpenAIGenerator struct {
	endpoint   string
	model      string
	apiKey     string
	minWords   int
	maxWords   int
	httpClient *http.Client
}

var _ ports.ContentGenerator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a client from configuration.
func NewOpenAIGenerator(cfg config.OpenAIConfig, gen config.GeneratorConfig) *OpenAIGenerator {
	return &OpenAIGenerator{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		minWords: gen.MinWords,
		maxWords: gen.MaxWords,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type generatedPayload struct {
	Content         string `json:"content"`
	Excerpt         string `json:"excerpt"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// Generate asks the backend for a structured article and parses its reply
// as strict JSON.
func (g *OpenAIGenerator) Generate(ctx context.Context, title, categoryName string) (domain.GeneratedContent, error) {
	if g.apiKey == "" || g.endpoint == "" || g.model == "" {
		return domain.GeneratedContent{}, fmt.Errorf("openai generator misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": g.prompt(title, categoryName)},
		},
		"temperature": 0.7,
	})
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("marshal openai payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeneratedContent{}, fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("read openai response: %w", err)
	}

	var envelope chatResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return domain.GeneratedContent{}, fmt.Errorf("openai response has no choices")
	}

	payload, err := parseArticleJSON(envelope.Choices[0].Message.Content)
	if err != nil {
		return domain.GeneratedContent{}, err
	}

	return domain.GeneratedContent{
		Content:         payload.Content,
		Excerpt:         truncate(payload.Excerpt, maxExcerptLen),
		MetaTitle:       truncate(payload.MetaTitle, maxMetaTitleLen),
		MetaDescription: truncate(payload.MetaDescription, maxMetaDescLen),
	}, nil
}

// parseArticleJSON extracts the first {...} block from the model output and
// decodes it, tolerating prose around the JSON but nothing inside it.
func parseArticleJSON(text string) (generatedPayload, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return generatedPayload{}, fmt.Errorf("openai output contains no JSON object")
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return generatedPayload{}, fmt.Errorf("decode article JSON: %w", err)
	}
	if payload.Content == "" {
		return generatedPayload{}, fmt.Errorf("article JSON is missing content")
	}
	return payload, nil
}

func (g *OpenAIGenerator) prompt(title, categoryName string) string {
	return fmt.Sprintf(`Sen bir SEO uzmanı ve blog yazarısın. Aşağıdaki başlık için Türkçe, özgün, derinlemesine bir blog yazısı yaz.

KURALLAR:
- Başlık: %q
- Kategori: %s
- Dil: Türkçe
- Kelime sayısı: %d-%d kelime arası
- H1 başlık zaten verildi, sen H2 ve H3 alt başlıklar kullan
- Özgün ol, kopyala-yapıştır yapma
- SEO uyumlu: anahtar kelimeleri doğal kullan
- Paragraflar 2-4 cümle arası olsun
- Meta title (max %d karakter) ve meta description (max %d karakter) üret

Çıktıyı SADECE aşağıdaki JSON formatında ver, başka metin ekleme:
{
  "content": "HTML formatında içerik (h2, h3, p, ul, li etiketleriyle)",
  "excerpt": "2-3 cümlelik özet (max %d karakter)",
  "meta_title": "...",
  "meta_description": "..."
}`, title, categoryName, g.minWords, g.maxWords, maxMetaTitleLen, maxMetaDescLen, maxExcerptLen)
}
