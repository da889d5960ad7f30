package rules

import "github.com/yaklabco/mdfmt/pkg/lint"

// RegisterAll registers the built-in rules with registry.
func RegisterAll(registry *lint.Registry) {
	registry.Register(NewHeadingHierarchyRule())
	registry.Register(NewDuplicateReferenceRule())
	registry.Register(NewYAMLMetadataRule())
}

// NewRegistry returns a registry holding the built-in rules.
func NewRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	RegisterAll(registry)
	return registry
}
