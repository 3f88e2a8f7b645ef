package pwned

import (
	"context"
	"pwmeter/internal/scorer"
)

// Matcher reports a password seen in a breach as a single match covering
// the whole password
type Matcher struct {
	client *Client
}

// NewMatcherFactory returns the factory the scorer loader uses to
// register the breach check
func NewMatcherFactory(client *Client) scorer.MatcherFactory {
	return func(options *scorer.Options) scorer.Matcher {
		return &Matcher{client: client}
	}
}

func (m *Matcher) Match(ctx context.Context, password string) ([]scorer.Match, error) {
	count, err := m.client.CheckPassword(ctx, password)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return []scorer.Match{
		{
			Pattern: scorer.PatternPwned,
			I:       0,
			J:       len([]rune(password)) - 1,
			Token:   password,
			Count:   count,
		},
	}, nil
}
