package entities

// ResolveSecret exports resolveSecret for testing.
var ResolveSecret = resolveSecret //nolint:gochecknoglobals // test export

// Validate exports validate for testing.
var Validate = validate //nolint:gochecknoglobals // test export
