package domain

// Summary counts recorded lookalike rows for one ad account and window.
type Summary struct {
	AdAccountID string
	From        int64 // unix seconds
	To          int64 // unix seconds

	Counts

	GroupBy string // "", "status", "country", "day"
	Groups  []SummaryGroup
}

type SummaryGroup struct {
	Key string // "created", "TW" or "2026-01-02T00:00:00Z"
	Counts
}

type Counts struct {
	Total   int64
	Created int64
	Skipped int64
	Failed  int64
}

func (c *Counts) Add(o Counts) {
	c.Total += o.Total
	c.Created += o.Created
	c.Skipped += o.Skipped
	c.Failed += o.Failed
}
