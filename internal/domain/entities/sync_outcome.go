package entities

// SyncStatus classifies the result of synchronizing a repository or branch.
type SyncStatus string

const (
	StatusCloned   SyncStatus = "CLONED"
	StatusUpToDate SyncStatus = "UP_TO_DATE"
	StatusUpdated  SyncStatus = "UPDATED"
	StatusError    SyncStatus = "ERROR"
)

// SyncOutcome is the result of bringing one repository, or one branch of it,
// up to date. Err is set if and only if Status is StatusError.
type SyncOutcome struct {
	Repository Repository
	Branch     string // empty for repository-scoped outcomes
	Status     SyncStatus
	Err        error
}

// NewSuccessOutcome creates a non-error outcome.
func NewSuccessOutcome(repo Repository, branch string, status SyncStatus) SyncOutcome {
	return SyncOutcome{Repository: repo, Branch: branch, Status: status}
}

// NewErrorOutcome creates an ERROR outcome carrying its cause.
func NewErrorOutcome(repo Repository, branch string, err error) SyncOutcome {
	return SyncOutcome{Repository: repo, Branch: branch, Status: StatusError, Err: err}
}

// IsError reports whether the outcome represents a failure.
func (o SyncOutcome) IsError() bool {
	return o.Status == StatusError
}

// PullResult is what a successful pull did to the checked-out branch.
type PullResult int

const (
	PullUpToDate PullResult = iota
	PullUpdated
)

// Status maps a pull result to the outcome status reported for the branch.
func (r PullResult) Status() SyncStatus {
	if r == PullUpToDate {
		return StatusUpToDate
	}
	return StatusUpdated
}
