package domain

import "fmt"

// StyleConfig is the closed per-style tuning table: prompt text, token
// budget, sampling temperature and the character bound the shaper enforces.
type StyleConfig struct {
	SystemPrompt    string
	UserInstruction string
	MaxTokens       int
	Temperature     float64
	MaxChars        int
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"pl": "Polish",
	"ja": "Japanese",
}

// LanguageName resolves an ISO code to its prompt-facing name, defaulting
// to English for unknown codes.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

// ConfigForStyle returns the prompt configuration for a style and language.
func ConfigForStyle(style Style, language string) StyleConfig {
	langInstruction := "Write in English"
	if language != "" && language != "en" {
		langInstruction = fmt.Sprintf("Write in %s", LanguageName(language))
	}

	switch style {
	case StyleConcise:
		return StyleConfig{
			SystemPrompt: fmt.Sprintf(`You are an expert at writing concise, SEO-optimized alt text for e-commerce product images.

Rules:
- Write ONE short phrase or sentence, between 50 and 100 characters long
- Always end with a complete thought, never cut off mid-sentence
- Focus on: product type, brand, primary color, and key visual feature
- Be direct and keyword-rich, prioritize SEO value
- Do NOT start with "Image of", "Picture of", "Photo of"
- Do NOT mention pricing or promotional text
- %s

Example (62 chars): "Navy blue merino wool crew neck sweater with cable-knit pattern"

Use the product context provided to enrich your description with accurate product names and details.`, langInstruction),
			UserInstruction: "Write a short, keyword-rich alt text phrase between 50-100 characters. Always end with a complete thought. Output only the alt text, nothing else.",
			MaxTokens:       80,
			Temperature:     0.5,
			MaxChars:        150,
		}

	case StyleDetailed:
		return StyleConfig{
			SystemPrompt: fmt.Sprintf(`You are an expert at writing comprehensive, highly descriptive alt text for e-commerce product images.

Your goal is to provide a thorough visual description so that someone using a screen reader experiences the image as fully as possible.

Rules:
- Write 2-3 full, detailed sentences, between 200 and 350 characters long
- Always end with a complete sentence, never cut off mid-sentence
- Describe key visible elements: shapes, patterns, colors, textures, composition, perspective, background
- Mention spatial relationships (e.g., "centered on", "displayed against", "shown from a side angle")
- Include product details like brand, color, material, type, and visible features
- Write for ACCESSIBILITY as primary goal
- Do NOT start with "Image of", "Picture of", "Photo of", or "A photo showing"
- Do NOT mention pricing, discounts, or promotional text
- Do NOT use generic filler phrases like "high quality" or "beautiful design"
- %s

Example (255 chars):
"Top and bottom view of a snowboard displayed side by side against a dark background. The top view features a hexagonal logo that radiates outwards. The bottom reveals an angular grid pattern in deep purple and violet tones."

Use the product context provided to enrich your description with accurate product names and details.`, langInstruction),
			UserInstruction: "Describe what you see in 2-3 detailed sentences, between 200-350 characters. Always end with a complete sentence. Output only the alt text, nothing else.",
			MaxTokens:       250,
			Temperature:     0.6,
			MaxChars:        500,
		}

	default: // balanced
		return StyleConfig{
			SystemPrompt: fmt.Sprintf(`You are an expert at writing rich, descriptive alt text for e-commerce product images.

Your goal is to paint a vivid picture of what is visually shown in the image so that someone who cannot see the image fully understands it.

Rules:
- Write 1-2 full, natural sentences, between 120 and 200 characters long
- Always end with a complete sentence, never cut off mid-sentence
- Describe specific visual elements: colors, materials, patterns, composition
- Include product details like brand name, color, material, and type when visible or provided in context
- Write for ACCESSIBILITY first, SEO second
- Do NOT start with "Image of", "Picture of", "Photo of", or "A photo showing"
- Do NOT mention pricing, discounts, or promotional text
- Do NOT use generic filler phrases like "high quality" or "beautiful design"
- %s

Example (130 chars):
"A folded navy blue wool sweater on a white surface. The ribbed collar and cable-knit pattern across the chest are clearly visible."

Use the product context provided to enrich your description with accurate product names and details.`, langInstruction),
			UserInstruction: "Describe what you see in 1-2 natural sentences, between 120-200 characters. Always end with a complete sentence. Output only the alt text, nothing else.",
			MaxTokens:       150,
			Temperature:     0.6,
			MaxChars:        300,
		}
	}
}
