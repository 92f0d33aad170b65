package lexer

import "github.com/loft-lang/loft/common"

// Cursor adds token-level lookahead on top of a Tokenizer. Its front
// buffer is the only backtracking mechanism above the character level:
// a consumer that regrets pulling tokens pushes them back in original
// order instead of rewinding the tokenizer.
type Cursor struct {
	tokens *Tokenizer
	buffer []Token
}

func NewCursor(tokens *Tokenizer) *Cursor {
	return &Cursor{tokens: tokens}
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (Token, *common.Error) {
	return c.PeekN(0)
}

// PeekN returns the token n positions ahead (0 is the next token),
// materializing tokens into the buffer as needed.
func (c *Cursor) PeekN(n int) (Token, *common.Error) {
	for len(c.buffer) <= n {
		tok, err := c.tokens.Next()
		if err != nil {
			return nil, err
		}
		c.buffer = append(c.buffer, tok)
	}
	return c.buffer[n], nil
}

// Next consumes and returns the next token.
func (c *Cursor) Next() (Token, *common.Error) {
	if len(c.buffer) > 0 {
		tok := c.buffer[0]
		c.buffer = c.buffer[1:]
		return tok, nil
	}
	return c.tokens.Next()
}

// PushBack prepends tok to the buffer so it is returned by the next
// call to Peek or Next.
func (c *Cursor) PushBack(tok Token) {
	c.buffer = append([]Token{tok}, c.buffer...)
}

// Error builds a positioned error at the tokenizer's current read head.
func (c *Cursor) Error(msg string, length int) *common.Error {
	return c.tokens.Error(msg, length)
}

// TakeLastDocComment proxies the tokenizer's doc comment slot.
func (c *Cursor) TakeLastDocComment() (string, bool) {
	return c.tokens.TakeLastDocComment()
}
