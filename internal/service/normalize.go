package service

import (
	"strings"
	"unicode"
)

// sttReplacements corrects words the speech-to-text layer is known to
// misrecognize in place of Czech given names.
var sttReplacements = map[string]string{
	"Pattern": "Petr",
}

// NormalizeName trims, title-cases and fixes known transcription artifacts
// in a spoken customer name. Empty input stays empty.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	words := strings.Fields(trimmed)
	for i, word := range words {
		words[i] = titleWord(word)
	}
	result := strings.Join(words, " ")

	for wrong, correct := range sttReplacements {
		result = strings.ReplaceAll(result, wrong, correct)
	}

	return result
}

func titleWord(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// NormalizePhone strips whitespace from a phone number. Numbers arrive from
// the caller id in E.164 form, sometimes with spaces spoken in.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}
