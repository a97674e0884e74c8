package generator

import (
	"context"
	"fmt"
	"html"
	"math/rand"
	"strings"

	"BlogPublisher/internal/config"
	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
)

const (
	sentencesPerParagraph = 4
	maxMetaTitleLen       = 60
	maxMetaDescLen        = 155
	maxExcerptLen         = 160
)

// Fixed pool of filler sentences mixed into every paragraph. Sentences may
// repeat across paragraphs of the same article; the pool is small and the
// word-count floor matters more than cross-paragraph novelty.
var fillerSentences = []string{
	"Doğru planlama, uzun vadede hem zamandan hem de maliyetten tasarruf sağlamaktadır.",
	"Uzman görüşlerine başvurmak, karar süreçlerinde yapılan hataları önemli ölçüde azaltır.",
	"Sürdürülebilirlik ve verimlilik, günümüzde vazgeçilmez değerlendirme kriterleri arasındadır.",
	"Detaylara gösterilen özen, elde edilen sonuçların kalitesini doğrudan etkilemektedir.",
	"Güncel kaynaklardan düzenli olarak bilgi edinmek, alandaki değişimleri takip etmeyi kolaylaştırır.",
	"Kullanıcı ihtiyaçlarını merkeze alan bir yaklaşım, kalıcı ve işlevsel çözümler üretir.",
}

// TemplateGenerator composes SEO-structured articles deterministically from
// title/category templated sentences. It never fails, which makes it the
// fallback of choice when no external backend is reachable.
type TemplateGenerator struct {
	minWords int
	maxWords int
	siteName string
}

var _ ports.ContentGenerator = (*TemplateGenerator)(nil)

// NewTemplateGenerator builds the deterministic strategy from config bounds.
func NewTemplateGenerator(cfg config.GeneratorConfig, siteName string) *TemplateGenerator {
	minWords := cfg.MinWords
	if minWords <= 0 {
		minWords = 800
	}
	maxWords := cfg.MaxWords
	if maxWords < minWords {
		maxWords = minWords
	}
	return &TemplateGenerator{minWords: minWords, maxWords: maxWords, siteName: siteName}
}

type section struct {
	heading     string
	subheadings []string
	paragraphs  int
}

// Generate renders the fixed outline (intro, basics with two subsections,
// practical advice, conclusion) and appends generic sections until the word
// floor is met. maxWords is a soft planning bound only; overshoot past it is
// acceptable. All user-supplied text is HTML-escaped.
func (g *TemplateGenerator) Generate(_ context.Context, title, categoryName string) (domain.GeneratedContent, error) {
	safeTitle := html.EscapeString(title)
	safeCategory := html.EscapeString(categoryName)

	sections := []section{
		{heading: safeTitle + " Nedir?", paragraphs: 2},
		{
			heading:     safeTitle + " Hakkında Temel Bilgiler",
			subheadings: []string{"Önemli Noktalar", "Dikkat Edilmesi Gerekenler"},
			paragraphs:  2,
		},
		{heading: safeTitle + " ile İlgili Pratik Öneriler", paragraphs: 2},
		{heading: "Sonuç ve Değerlendirme", paragraphs: 2},
	}

	var b strings.Builder
	words := 0
	writeParagraph := func() {
		p := g.paragraph(safeTitle, safeCategory)
		b.WriteString("<p>")
		b.WriteString(p)
		b.WriteString("</p>")
		words += len(strings.Fields(p))
	}

	for _, s := range sections {
		fmt.Fprintf(&b, "<h2>%s</h2>", s.heading)
		for _, h3 := range s.subheadings {
			fmt.Fprintf(&b, "<h3>%s</h3>", h3)
			for i := 0; i < 2; i++ {
				writeParagraph()
			}
		}
		for i := 0; i < s.paragraphs; i++ {
			writeParagraph()
		}
	}

	for words < g.minWords {
		fmt.Fprintf(&b, "<h2>%s Hakkında Ek Bilgiler</h2>", safeTitle)
		for i := 0; i < 2; i++ {
			writeParagraph()
		}
	}

	metaTitle := title
	if g.siteName != "" {
		metaTitle = fmt.Sprintf("%s | %s", title, g.siteName)
	}

	return domain.GeneratedContent{
		Content: b.String(),
		Excerpt: truncate(fmt.Sprintf(
			"%s konusunda kapsamlı bir rehber. %s alanında güncel bilgiler ve pratik öneriler.",
			title, categoryName), maxExcerptLen),
		MetaTitle: truncate(metaTitle, maxMetaTitleLen),
		MetaDescription: truncate(fmt.Sprintf(
			"%s hakkında detaylı bilgiler, pratik öneriler ve uzman yaklaşımıyla hazırlanmış rehber. %s kategorisinde.",
			title, categoryName), maxMetaDescLen),
	}, nil
}

// paragraph joins four randomly ordered sentences drawn from the templated
// openers plus the filler pool.
func (g *TemplateGenerator) paragraph(safeTitle, safeCategory string) string {
	pool := make([]string, 0, len(fillerSentences)+3)
	pool = append(pool,
		fmt.Sprintf("%s konusu, %s alanında önemli bir yer tutmaktadır.", safeTitle, safeCategory),
		fmt.Sprintf("%s ile ilgili çalışmalarda kalite ve güvenilirlik ön planda tutulmalıdır.", safeTitle),
		fmt.Sprintf("%s sektöründeki güncel gelişmeler, %s hakkındaki yaklaşımları da şekillendirmektedir.", safeCategory, safeTitle),
	)
	pool = append(pool, fillerSentences...)

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return strings.Join(pool[:sentencesPerParagraph], " ")
}

// truncate caps a string at n characters without splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
