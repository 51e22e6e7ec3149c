package types

// BatchItem is the result of one variable set of a batch.
type BatchItem struct {
	Index  int         `json:"index" jsonschema:"Position of the variable set in variables_list"`
	Key    string      `json:"key,omitempty" jsonschema:"Value of the key_field variable for this item"`
	Result QueryResult `json:"result"`
}

// BatchSummary counts batch items by status.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Warning    int `json:"warning"`
	Failed     int `json:"failed"`
}

// Add counts r in the summary.
func (s *BatchSummary) Add(r QueryResult) {
	s.Total++
	switch r.Status {
	case StatusSuccess:
		s.Successful++
	case StatusWarning:
		s.Warning++
	default:
		s.Failed++
	}
}

// BatchResult is the output of the batch tools. When the batch itself is
// rejected (bad input) Status is error and Results is empty.
type BatchResult struct {
	Status  string       `json:"status"`
	Results []BatchItem  `json:"results,omitzero"`
	Summary BatchSummary `json:"summary"`
	Error   *ToolError   `json:"error,omitempty"`
}
