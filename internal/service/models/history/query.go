package history

// QueryEntriesModel is a filter for querying status history entries.
type QueryEntriesModel struct {
	OrderIds  []int64
	StatusIds []int64
	Limit     int
	Offset    int
}
