package summarize

import "fmt"

var styleInstructions = map[string]string{
	TypeBrief:        "Escreva um resumo curto, de no máximo três frases.",
	TypeDetailed:     "Escreva um resumo detalhado cobrindo todos os pontos principais, na ordem em que aparecem.",
	TypeBulletPoints: "Escreva o resumo como uma lista de bullet points, um ponto principal por linha.",
	TypeKeyTopics:    "Liste apenas os principais tópicos abordados, um por linha.",
}

// buildPrompt renders the completion-API prompt shared by all providers.
func buildPrompt(text, summaryType, language string) string {
	style, ok := styleInstructions[summaryType]
	if !ok {
		style = styleInstructions[TypeBrief]
	}

	return fmt.Sprintf(`Você é um assistente que resume transcrições de vídeos.
%s
Responda no idioma "%s". Não adicione frases introdutórias; responda apenas com o resumo.

Transcrição:
---
%s
---`, style, language, text)
}
