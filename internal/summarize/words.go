package summarize

// Stop-word sets are closed lists of function words per language. Unknown
// language codes fall back to Portuguese, the service default.
var stopWords = map[string]map[string]bool{
	"pt": toSet(
		"para", "como", "mais", "mas", "pelo", "pela", "esse", "essa",
		"este", "esta", "isso", "isto", "aquele", "aquela", "você", "vocês",
		"eles", "elas", "nós", "seu", "sua", "seus", "suas", "meu", "minha",
		"com", "sem", "sobre", "entre", "até", "depois", "antes", "quando",
		"onde", "porque", "então", "também", "muito", "muita", "muitos",
		"muitas", "todo", "toda", "todos", "todas", "cada", "pode", "podem",
		"ser", "estar", "tem", "têm", "foi", "são", "está", "estão", "uma",
		"umas", "uns", "das", "dos", "nas", "nos", "que", "não",
	),
	"en": toSet(
		"this", "that", "these", "those", "with", "from", "have", "has",
		"had", "will", "would", "could", "should", "been", "being", "they",
		"them", "their", "there", "then", "than", "when", "where", "which",
		"what", "your", "yours", "ours", "very", "much", "many", "more",
		"most", "some", "such", "into", "over", "under", "about", "after",
		"before", "because", "does", "doing", "were", "was", "are", "also",
		"just", "only", "each", "every", "other", "others",
	),
}

// Sentiment word lists, matched as substrings of whitespace tokens.
var (
	positiveWords = []string{
		"bom", "boa", "ótim", "otim", "excelente", "maravilh", "incrível",
		"incrivel", "perfeit", "melhor", "gost", "ador", "amo", "feliz",
		"sucesso", "positiv", "fantástic", "fantastic",
	}
	negativeWords = []string{
		"ruim", "péssim", "pessim", "horrível", "horrivel", "terrível",
		"terrivel", "pior", "problema", "erro", "falh", "negativ", "trist",
		"difícil", "dificil", "ódio", "odio", "fracass",
	}
)

// Sentiment labels.
const (
	SentimentPositive = "Positivo"
	SentimentNegative = "Negativo"
	SentimentNeutral  = "Neutro"
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func stopWordsFor(language string) map[string]bool {
	if set, ok := stopWords[language]; ok {
		return set
	}
	return stopWords["pt"]
}
