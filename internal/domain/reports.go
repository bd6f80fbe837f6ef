package domain

// SyncReport summarizes a bulk local-to-remote sync. Success means at least
// one product made it across; partial completion is a terminal state.
type SyncReport struct {
	Success bool `json:"success"`
	Total   int  `json:"total"`
	Synced  int  `json:"synced"`
	Failed  int  `json:"failed"`
}

// ImportReport summarizes a bulk remote-to-local import.
type ImportReport struct {
	Success  bool `json:"success"`
	Total    int  `json:"total"`
	Imported int  `json:"imported"`
	Updated  int  `json:"updated"`
	Failed   int  `json:"failed"`
}
