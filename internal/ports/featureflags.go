package ports

import (
	"context"
)

// Feature flag keys read by the application.
const (
	// FlagRecommenderStrategy forces one recommendation strategy for every
	// request that does not name one explicitly.
	FlagRecommenderStrategy = "recommender.strategy"

	// FlagPDFExport enables the PDF quote exporter.
	FlagPDFExport = "export.pdf"

	// FlagAgentScopedLists keys recent quotes and favorites by agent id.
	FlagAgentScopedLists = "lists.agent-scoped"
)

// FeatureFlags evaluates flags without exposing the provider. Every lookup
// takes a default that is returned when the flag is missing.
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
	GetString(ctx context.Context, flag string, defaultValue string) string
	GetInt(ctx context.Context, flag string, defaultValue int) int
}

// FeatureFlagUser identifies the agent a flag is evaluated for.
type FeatureFlagUser struct {
	ID         string
	Roles      []string
	Attributes map[string]any
}

type featureFlagUserKey struct{}

// WithFeatureFlagUser stores the agent on ctx for targeted evaluation.
func WithFeatureFlagUser(ctx context.Context, user *FeatureFlagUser) context.Context {
	return context.WithValue(ctx, featureFlagUserKey{}, user)
}

// GetFeatureFlagUser returns the agent stored on ctx, or nil.
func GetFeatureFlagUser(ctx context.Context) *FeatureFlagUser {
	if user, ok := ctx.Value(featureFlagUserKey{}).(*FeatureFlagUser); ok {
		return user
	}

	return nil
}
