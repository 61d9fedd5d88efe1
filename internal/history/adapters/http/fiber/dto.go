package fiber

type CountsResponse struct {
	Total   int64 `json:"total"`
	Created int64 `json:"created"`
	Skipped int64 `json:"skipped"`
	Failed  int64 `json:"failed"`
}

type HistoryGroupResponse struct {
	Key string `json:"key"`
	CountsResponse
}

type HistoryResponse struct {
	AdAccountID string `json:"ad_account_id"`
	From        int64  `json:"from"`
	To          int64  `json:"to"`
	CountsResponse
	GroupBy string                 `json:"group_by,omitempty"`
	Groups  []HistoryGroupResponse `json:"groups,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_history_query"`
	Message string `json:"message" example:"invalid time range"`
}
