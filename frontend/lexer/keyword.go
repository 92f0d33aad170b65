package lexer

// Keyword is one of the language's reserved words.
type Keyword int

const (
	KwLet Keyword = iota
	KwConst
	KwFn
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwReturn
	KwBreak
	KwContinue
	KwMatch
	KwDef
	KwEnum
	KwImpl
	KwTrait
	KwAsync
	KwAwait
	KwLazy
	KwMut
	KwTrue
	KwFalse
	KwLearn
	KwTeach
)

var keywordNames = [...]string{
	KwLet:      "let",
	KwConst:    "const",
	KwFn:       "fn",
	KwIf:       "if",
	KwElse:     "else",
	KwWhile:    "while",
	KwFor:      "for",
	KwIn:       "in",
	KwReturn:   "return",
	KwBreak:    "break",
	KwContinue: "continue",
	KwMatch:    "match",
	KwDef:      "def",
	KwEnum:     "enum",
	KwImpl:     "impl",
	KwTrait:    "trait",
	KwAsync:    "async",
	KwAwait:    "await",
	KwLazy:     "lazy",
	KwMut:      "mut",
	KwTrue:     "true",
	KwFalse:    "false",
	KwLearn:    "learn",
	KwTeach:    "teach",
}

func (k Keyword) String() string {
	return keywordNames[k]
}

var keywords = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordNames))
	for kw, name := range keywordNames {
		m[name] = Keyword(kw)
	}
	return m
}()

// LookupKeyword maps an identifier's raw text to its keyword, if any.
func LookupKeyword(s string) (Keyword, bool) {
	kw, ok := keywords[s]
	return kw, ok
}
