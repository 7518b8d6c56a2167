package ai

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// CategoryClient asks Gemini to pick the category that best fits a donated
// item description.
type CategoryClient struct {
	model string
}

func NewCategoryClient() *CategoryClient {
	model := os.Getenv("GEMINI_CATEGORY_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &CategoryClient{model: model}
}

// Suggest returns the name of the best-matching category among candidates.
// The answer must be one of candidates verbatim; anything else is a parse
// failure the caller can ignore.
func (c *CategoryClient) Suggest(ctx context.Context, materialType, description string, candidates []string) (string, error) {
	start := time.Now()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("[category] stage=client_init err=%v", err)
		return "", err
	}

	prompt := fmt.Sprintf(`Tu classes des objets donnés à une plateforme solidaire.
Choisis la catégorie qui correspond le mieux à l'objet décrit, parmi cette liste exacte :
%s
Réponds uniquement avec le nom de la catégorie, entouré de dollars, exemple : $Mobilier$
Aucun autre texte, symbole ou retour à la ligne.`, strings.Join(candidates, "\n"))

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromText(fmt.Sprintf("Type de matériel : %s\nDescription : %s", materialType, description)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	log.Printf("[category] stage=gemini_start model=%s", c.model)
	res, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Printf("[category] stage=gemini_fail model=%s err=%v", c.model, err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	rawText := res.Text()
	name, err := ParseCategory(rawText, candidates)
	if err != nil {
		text := strings.ReplaceAll(rawText, "\n", " ")
		if len(text) > 80 {
			text = text[:80]
		}
		log.Printf("[category] stage=parse_fail len=%d text=%q err=%v", len(rawText), text, err)
		return "", err
	}
	log.Printf("[category] stage=parse_ok name=%q totalMs=%d", name, time.Since(start).Milliseconds())
	return name, nil
}
