package entities

import "errors"

var (
	// ErrDiscovery is returned when a provider cannot list the repositories of a scope.
	ErrDiscovery = errors.New("discovery failed")
	// ErrAuthenticationRejected marks a discovery failure caused by rejected credentials.
	ErrAuthenticationRejected = errors.New("authentication rejected")
	// ErrLocalRepository is returned when a local path exists but is not a usable repository.
	ErrLocalRepository = errors.New("invalid local repository")
	ErrClone           = errors.New("clone failed")
	ErrCheckout        = errors.New("checkout failed")
	ErrPull            = errors.New("pull failed")
	// ErrSkipped marks work abandoned because the run was cancelled.
	ErrSkipped = errors.New("skipped")
)
