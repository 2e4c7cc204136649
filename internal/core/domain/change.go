package domain

// FileEntry is one file reported by a scan.
type FileEntry struct {
	Path  string
	MTime int64
}

// ChangeOp classifies a change record.
type ChangeOp int

const (
	// OpCreate is a path with no live resource.
	OpCreate ChangeOp = iota
	// OpModify is a path whose live resource must be reloaded.
	OpModify
	// OpDelete is a path that disappeared from the scan.
	OpDelete
)

// String returns the op name.
func (op ChangeOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is the diff outcome for a single path within one update cycle.
type Change struct {
	Path        string
	MTime       int64
	Deleted     bool
	OldResource Resource
	NewResource Resource
}

// Op derives the change classification.
func (c *Change) Op() ChangeOp {
	switch {
	case c.Deleted:
		return OpDelete
	case c.OldResource == nil:
		return OpCreate
	default:
		return OpModify
	}
}

// AnalysisResult is the outcome of analyzing a set of paths.
// Both slices are sorted by path.
type AnalysisResult struct {
	Resources []Resource
	Skipped   []string
}
