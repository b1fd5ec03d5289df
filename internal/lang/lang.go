// Package lang classifies post content as chinese, japanese or english
// for slug transliteration. A statistical trigram classifier does the
// heavy lifting; short or ambiguous input falls back to counting
// Unicode script ranges.
package lang

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

type Language string

const (
	Auto     Language = "auto"
	Chinese  Language = "chinese"
	Japanese Language = "japanese"
	English  Language = "english"
)

func IsSupported(l Language) bool {
	switch l {
	case Auto, Chinese, Japanese, English:
		return true
	}
	return false
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Detect resolves the language of text. An explicit userLanguage other
// than Auto always wins.
func Detect(text string, userLanguage Language) Language {
	if userLanguage != "" && userLanguage != Auto {
		return userLanguage
	}
	if detected, ok := classify(text); ok {
		return detected
	}
	return detectByCharacters(text)
}

func classify(text string) (Language, bool) {
	normalized := strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
	if len([]rune(normalized)) < 3 {
		return "", false
	}
	info := whatlanggo.Detect(normalized)
	if !info.IsReliable() {
		return "", false
	}
	switch info.Lang {
	case whatlanggo.Cmn:
		return Chinese, true
	case whatlanggo.Jpn:
		return Japanese, true
	case whatlanggo.Eng:
		return English, true
	}
	return "", false
}

func isHan(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

func isKana(r rune) bool {
	return (r >= 0x3040 && r <= 0x309f) || (r >= 0x30a0 && r <= 0x30ff)
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// detectByCharacters is the character-frequency fallback. Ratios are
// against the total non-whitespace rune count: kana above 10% wins for
// Japanese, Han above 50% with no kana wins for Chinese, Latin above
// 70% wins for English. Anything else is treated as mixed, preferring
// Japanese when any kana is present, then Chinese when any Han is.
func detectByCharacters(text string) Language {
	var han, kana, latin, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		switch {
		case isHan(r):
			han++
		case isKana(r):
			kana++
		case isLatinLetter(r):
			latin++
		}
	}
	if total == 0 {
		return English
	}
	if float64(kana)/float64(total) > 0.1 {
		return Japanese
	}
	if float64(han)/float64(total) > 0.5 && kana == 0 {
		return Chinese
	}
	if float64(latin)/float64(total) > 0.7 {
		return English
	}
	if kana > 0 {
		return Japanese
	}
	if han > 0 {
		return Chinese
	}
	return English
}
