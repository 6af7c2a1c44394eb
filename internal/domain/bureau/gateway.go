package bureau

import (
	"context"
	"errors"
)

// ErrUnavailable is a transport-level bureau failure. It must never be
// converted into a pass.
var ErrUnavailable = errors.New("credit bureau unavailable")

type ResultKind int

const (
	// NoHit: the bureau does not know the customer.
	NoHit ResultKind = iota
	// Hit: a single record with data was returned.
	Hit
	// MergeRequired: the search matched duplicate records; a follow-up
	// merge call is needed before data can be read.
	MergeRequired
)

// LookupResult is the normalized outcome of a bureau pull. Sections stay
// opaque; only the derived figures drive the pass/fail evaluation.
type LookupResult struct {
	Kind            ResultKind
	Sections        []byte
	Delinquencies   int
	Score           *int
	MergeCandidates []string
}

// Gateway is one bureau's wire client. Implementations normalize the
// provider's response shapes into LookupResult and raise ErrUnavailable
// for anything transport-level.
type Gateway interface {
	Name() Name
	Lookup(ctx context.Context, bvn string) (LookupResult, error)
	Merge(ctx context.Context, bvn string, candidates []string) (LookupResult, error)
}
