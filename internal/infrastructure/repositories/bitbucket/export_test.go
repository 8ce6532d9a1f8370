package bitbucket

// NextPageURL exports nextPageURL for testing.
var NextPageURL = nextPageURL //nolint:gochecknoglobals // test export
