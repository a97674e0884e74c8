// Package generator produces article bodies and SEO metadata for a
// title/category pair. Two strategies exist: an OpenAI-backed one and a
// deterministic template one. The exported FallbackGenerator composes them
// so that synthesis never fails outward.
package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
	"BlogPublisher/pkg/slugify"
)

// FallbackGenerator tries the primary strategy first (when configured) and
// falls back to the template strategy on any failure. Publication must not
// be blocked by a backend outage, so Generate never returns an error.
type FallbackGenerator struct {
	primary  ports.ContentGenerator // nil when no backend is configured
	fallback *TemplateGenerator
	logger   *slog.Logger
}

var _ ports.ContentGenerator = (*FallbackGenerator)(nil)

// NewFallbackGenerator wires the optional primary strategy in front of the
// template one.
func NewFallbackGenerator(primary ports.ContentGenerator, fallback *TemplateGenerator, logger *slog.Logger) *FallbackGenerator {
	return &FallbackGenerator{primary: primary, fallback: fallback, logger: logger}
}

// Generate returns finished content for the title/category pair. The
// suggested base slug is always derived from the title.
func (g *FallbackGenerator) Generate(ctx context.Context, title, categoryName string) (domain.GeneratedContent, error) {
	if g.primary != nil {
		content, err := g.primary.Generate(ctx, title, categoryName)
		if err == nil {
			return g.finish(content, title), nil
		}
		g.warn("primary generator failed, using template fallback", "title", title, "error", err)
	}

	content, err := g.fallback.Generate(ctx, title, categoryName)
	if err != nil {
		// The template strategy has no failure modes today; guard anyway.
		return domain.GeneratedContent{}, err
	}
	return g.finish(content, title), nil
}

// finish fills the base slug and any metadata the strategy left empty.
func (g *FallbackGenerator) finish(content domain.GeneratedContent, title string) domain.GeneratedContent {
	content.Slug = slugify.Slug(title)
	if content.Excerpt == "" {
		content.Excerpt = excerptFromHTML(content.Content, maxExcerptLen)
	}
	if content.MetaTitle == "" {
		content.MetaTitle = truncate(title, maxMetaTitleLen)
	}
	if content.MetaDescription == "" {
		content.MetaDescription = truncate(content.Excerpt, maxMetaDescLen)
	}
	return content
}

// excerptFromHTML strips markup from the article body and truncates the
// remaining text.
func excerptFromHTML(content string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	return truncate(text, limit)
}

func (g *FallbackGenerator) warn(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
