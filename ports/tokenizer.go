package ports

import "github.com/lumina-markets/credenza/core"

// Tokenizer converts between session tokens and their wire encoding
type Tokenizer interface {
	SessionToToken(session *core.SessionToken) (string, error)
	TokenToSession(token string) (*core.SessionToken, error)
}
