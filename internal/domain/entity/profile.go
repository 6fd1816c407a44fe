package entity

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Breakdown keeps the low-level timing counters of a node in the order they
// appear in the profile JSON.
type Breakdown = orderedmap.OrderedMap[string, json.Number]

// ProfileNode is one timed operation of a query or aggregation tree.
type ProfileNode struct {
	Type        string        `json:"type,omitempty"`
	Description string        `json:"description"`
	TimeInNanos int64         `json:"time_in_nanos"`
	Breakdown   *Breakdown    `json:"breakdown,omitempty"`
	Children    []ProfileNode `json:"children,omitempty"`
}

// Collector describes a Lucene collector reported next to the query trees.
type Collector struct {
	Name        string      `json:"name"`
	Reason      string      `json:"reason"`
	TimeInNanos int64       `json:"time_in_nanos"`
	Children    []Collector `json:"children,omitempty"`
}

// SearchRecord holds the query trees executed for one search on a shard.
type SearchRecord struct {
	Query       []ProfileNode `json:"query"`
	RewriteTime int64         `json:"rewrite_time,omitempty"`
	Collector   []Collector   `json:"collector,omitempty"`
}

// ShardRecord é o perfil de um único shard.
type ShardRecord struct {
	ID           string         `json:"id"`
	Searches     []SearchRecord `json:"searches,omitempty"`
	Aggregations []ProfileNode  `json:"aggregations,omitempty"`
}

// FlatNode is a ProfileNode placed in a flattened tree.
// ParentDuration is nil for roots.
type FlatNode struct {
	ProfileNode
	Depth          int
	ParentDuration *int64
}

// IsRoot reports whether the node had no parent in its tree.
func (n FlatNode) IsRoot() bool {
	return n.ParentDuration == nil
}
