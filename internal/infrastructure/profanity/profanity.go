// Package profanity screens wall posts before they are broadcast. Like the
// rest of the moderation policy this runs client-side; the relay never
// inspects payloads.
package profanity

import (
	"embed"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"sync"
)

var (
	// Global instance for reuse (thread-safe)
	defaultFilter *Filter
	once          sync.Once
)

//go:embed words.json
var jsonData embed.FS

func LoadBannedWords() []string {
	data, err := jsonData.ReadFile("words.json")
	if err != nil {
		log.Fatalf("Failed to read embedded file: %s", err)
	}

	var bannedWords []string
	if err := json.Unmarshal(data, &bannedWords); err != nil {
		log.Fatalf("Failed to unmarshal JSON: %s", err)
	}
	return bannedWords
}

type Filter struct {
	regex *regexp.Regexp
}

func NewFilter() *Filter {
	once.Do(func() {
		defaultFilter = &Filter{
			regex: buildMasterRegex(LoadBannedWords()),
		}
	})

	return defaultFilter
}

func (f *Filter) ContainsProfanity(text string) bool {
	if text == "" {
		return false
	}

	return f.regex.MatchString(normalizeText(text))
}

// normalizeText defeats the common obfuscations: accents, leetspeak and
// separator stuffing.
func normalizeText(text string) string {
	s := strings.ToLower(text)
	s = strings.Map(func(r rune) rune {
		switch r {
		case 'á', 'à', 'â', 'ä', 'ã', 'å':
			return 'a'
		case 'é', 'è', 'ê', 'ë':
			return 'e'
		case 'í', 'ì', 'î', 'ï':
			return 'i'
		case 'ó', 'ò', 'ô', 'ö', 'õ':
			return 'o'
		case 'ú', 'ù', 'û', 'ü':
			return 'u'
		case 'ñ':
			return 'n'
		case 'ç':
			return 'c'
		default:
			return r
		}
	}, s)

	s = strings.NewReplacer(
		"@", "a", "4", "a",
		"3", "e", "€", "e",
		"1", "i", "!", "i", "|", "i",
		"0", "o",
		"$", "s", "5", "s",
		"7", "t", "+", "t",
	).Replace(s)

	// Collapse whitespace and common separators
	return separators.ReplaceAllString(s, " ")
}

var separators = regexp.MustCompile(`[\s_.\-*/\\|]+`)

// buildMasterRegex joins every banned word into one expression. Letters of a
// word may be split by non-letter filler ("f.u.c.k"), but the word itself
// must sit on non-letter boundaries so that ordinary words containing a
// banned substring ("class", "assignment") pass.
func buildMasterRegex(words []string) *regexp.Regexp {
	patterns := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}

		var b strings.Builder
		for i, r := range word {
			if i > 0 {
				b.WriteString(`[^\p{L}\p{N}]*`)
			}
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
		patterns = append(patterns, b.String())
	}

	expression := `(?:^|[^\p{L}])(?:` + strings.Join(patterns, "|") + `)(?:[^\p{L}]|$)`
	return regexp.MustCompile(expression)
}
