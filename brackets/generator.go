package brackets

import "context"

type GenerateBracketParams struct {
	Instance *Instance
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}
