package effects

import "strings"

// ApplyToken triggers one render-to-texture pass.
const ApplyToken = "apply"

// Kind classifies a recognized command word.
type Kind uint8

const (
	KindMask Kind = iota + 1
	KindOperation
	KindApply
)

// Token is a resolved command word.
type Token struct {
	Kind      Kind
	Mask      Mask
	Operation Operation
}

// vocabulary is built once from the enums; Run never looks names up in the shader.
var vocabulary = buildVocabulary()

func buildVocabulary() map[string]Token {
	v := make(map[string]Token, int(numMasks)+int(numOperations)+1)
	for _, m := range Masks() {
		v[m.String()] = Token{Kind: KindMask, Mask: m}
	}
	for _, o := range Operations() {
		v[o.String()] = Token{Kind: KindOperation, Operation: o}
	}
	v[ApplyToken] = Token{Kind: KindApply}
	return v
}

// Tokenize splits a program on whitespace. Tokens are case-sensitive literals.
func Tokenize(program string) []string {
	return strings.Fields(program)
}

// Lookup resolves a single command word.
func Lookup(word string) (Token, bool) {
	t, ok := vocabulary[word]
	return t, ok
}

// Vocabulary lists every recognized word, masks first, then operations, then apply.
func Vocabulary() []string {
	words := make([]string, 0, len(vocabulary))
	for _, m := range Masks() {
		words = append(words, m.String())
	}
	for _, o := range Operations() {
		words = append(words, o.String())
	}
	return append(words, ApplyToken)
}
