package entity

// ReconcileResult counts the rows each reconciliation rule changed.
type ReconcileResult struct {
	Activated      int64 `json:"activated"`
	Completed      int64 `json:"completed"`
	Expired        int64 `json:"expired"`
	NoShow         int64 `json:"no_show"`
	SessionsLocked int64 `json:"sessions_locked"`
}

func (r ReconcileResult) Total() int64 {
	return r.Activated + r.Completed + r.Expired + r.NoShow
}
