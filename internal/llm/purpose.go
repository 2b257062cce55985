package llm

import "context"

// Purpose labels why a request was made. It is stored with every logged
// request so usage can be broken down per feature.
type Purpose string

const (
	PurposeUnknown  Purpose = "unknown"
	PurposePlan     Purpose = "plan-gen"
	PurposePlanChat Purpose = "plan-gen-chat"
	PurposeChat     Purpose = "chat"
)

type purposeKey struct{}

// WithPurpose tags ctx so the logging middleware can record the purpose.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose ctx was tagged with, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
