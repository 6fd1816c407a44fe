package entity

// Source identifica de onde veio uma árvore dentro do shard.
type Source string

const (
	SourceQuery       Source = "query"
	SourceAggregation Source = "aggregation"
)

// ReportRow is a flattened node together with where it came from.
type ReportRow struct {
	ShardID string   `json:"shard_id"`
	Source  Source   `json:"source"`
	Tree    int      `json:"tree"`
	Node    FlatNode `json:"-"`
	Lines   []string `json:"-"`

	Depth       int        `json:"depth"`
	TimeInNanos int64      `json:"time_in_nanos"`
	Millis      string     `json:"ms"`
	Percent     int64      `json:"percent"`
	Type        string     `json:"type,omitempty"`
	Description string     `json:"description"`
	Breakdown   *Breakdown `json:"breakdown,omitempty"`
}

// ShardReport groups the rendered output of one shard.
type ShardReport struct {
	ID   string      `json:"id"`
	Rows []ReportRow `json:"rows"`
}

// Header returns the line that opens the shard block.
func (s ShardReport) Header() string {
	return "Shard: " + s.ID
}

// Lines returns the plain text block of the shard, including its header
// and the trailing blank separator.
func (s ShardReport) Lines() []string {
	lines := []string{s.Header()}
	for _, row := range s.Rows {
		lines = append(lines, row.Lines...)
	}
	return append(lines, "")
}

// ShardSummary represents the aggregated numbers shown in the summary table.
type ShardSummary struct {
	ID               string `json:"id"`
	QueryTrees       int    `json:"query_trees"`
	AggregationTrees int    `json:"aggregation_trees"`
	Nodes            int    `json:"nodes"`
	TotalNanos       int64  `json:"total_nanos"`
}

// Report is the complete result of processing a profile document.
type Report struct {
	Shards  []ShardReport  `json:"shards"`
	Summary []ShardSummary `json:"summary"`
}
