// Package tokenizer provides text tokenisation for the positional index.
// It lower-cases input, splits on non-alphanumeric boundaries, drops
// stop-words and stems with Snowball English. Every word, kept or
// dropped, consumes one position so proximity distances match the text.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {},
}

// Token is a normalised term and its word position in the original text.
type Token struct {
	Term     string
	Position uint32
}

// Tokenize breaks text into stemmed, lowercased Tokens with stop-words
// removed.
func Tokenize(text string) []Token {
	words := Words(text)
	tokens := make([]Token, 0, len(words))
	for pos, word := range words {
		term, ok := Normalize(word)
		if !ok {
			continue
		}
		tokens = append(tokens, Token{
			Term:     term,
			Position: uint32(pos),
		})
	}
	return tokens
}

// Words splits text into lowercased words without filtering.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Normalize maps one word to its index term. It reports false for words the
// index never stores.
func Normalize(word string) (string, bool) {
	word = strings.ToLower(word)
	if len(word) < 2 {
		return "", false
	}
	if _, isStop := stopWords[word]; isStop {
		return "", false
	}
	stemmed := stem(word)
	if stemmed == "" {
		return "", false
	}
	return stemmed, true
}

// stem reduces word with the Snowball English stemmer. Stop-word
// filtering happens before, against the index's own list.
func stem(word string) string {
	return english.Stem(word, false)
}
