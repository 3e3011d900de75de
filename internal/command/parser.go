package command

import (
	"errors"
	"strings"
	"unicode"
)

var ErrUnterminatedQuote = errors.New("unterminated quote")

// Parse splits raw into a command type and its parameters. It returns false
// when raw holds no tokens. The prefix, if non-empty, must lead the first
// token and is stripped from the command type.
func Parse(raw, senderID, channelID, prefix string) (*Command, bool) {
	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		return nil, false
	}

	name := tokens[0]
	if prefix != "" {
		if !strings.HasPrefix(name, prefix) {
			return nil, false
		}
		name = strings.TrimPrefix(name, prefix)
	}

	return &Command{
		Type:      Type(name),
		UserID:    senderID,
		ChannelID: channelID,
		Params:    tokens[1:],
		Raw:       raw,
	}, true
}

// Tokenize splits on whitespace. A double-quoted span is kept as part of a
// single token and the quotes are dropped, so `"ship v2"` yields `ship v2`.
// There is no escaping. An unmatched quote swallows the rest of the input
// into the final token.
func Tokenize(s string) []string {
	tokens, _ := tokenize(s)
	return tokens
}

// TokenizeStrict is Tokenize but rejects an unmatched quote.
func TokenizeStrict(s string) ([]string, error) {
	return tokenize(s)
}

func tokenize(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		// quoted "" still produces a token
		pending bool
	)

	flush := func() {
		if pending {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		pending = false
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			pending = true
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	flush()

	if inQuote {
		return tokens, ErrUnterminatedQuote
	}
	return tokens, nil
}
