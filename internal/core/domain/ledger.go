package domain

// PushResult records what a push did on the remote store for one artifact.
// Rollback scope is derived from it alone.
type PushResult int

const (
	// PushAlreadyExisted means nothing was written.
	PushAlreadyExisted PushResult = iota
	// PushCreatedNew means the artifact's top-level resource was created
	// by this push. For composite models that is the parent model.
	PushCreatedNew
	// PushCreatedVersionOnly means the parent model already existed and
	// only the model-ver child was created.
	PushCreatedVersionOnly
)

func (r PushResult) String() string {
	switch r {
	case PushAlreadyExisted:
		return "already-existed"
	case PushCreatedNew:
		return "created-new"
	case PushCreatedVersionOnly:
		return "created-version-only"
	default:
		return "unknown"
	}
}

type LedgerEntry struct {
	Artifact Artifact
	Result   PushResult
}

// Ledger is the ordered record of resources created by one push call.
// It is owned by a single batch and is not safe for concurrent use.
type Ledger struct {
	entries []LedgerEntry
}

// Record appends an entry. Artifacts that already existed are not recorded
// since they are never rolled back.
func (l *Ledger) Record(a Artifact, result PushResult) {
	if result == PushAlreadyExisted {
		return
	}
	l.entries = append(l.entries, LedgerEntry{Artifact: a, Result: result})
}

// Entries returns the entries in creation order.
func (l *Ledger) Entries() []LedgerEntry {
	if l == nil {
		return nil
	}
	out := make([]LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// UniqueIDs lists the recorded artifact identifiers in creation order.
func (l *Ledger) UniqueIDs() []string {
	if l == nil {
		return nil
	}
	ids := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		ids = append(ids, e.Artifact.UniqueID())
	}
	return ids
}
