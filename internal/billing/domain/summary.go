package domain

import "github.com/bwmarrin/snowflake"

// ServiceUsage is the aggregated bill total for one service: the sum of all
// bill durations converted to seconds.
type ServiceUsage struct {
	ServiceID   snowflake.ID
	ServiceName string
	CostPerMs   float64
	Seconds     float64
}

// TokenUsage groups service usage under one API token. Tokens without
// services appear with an empty Services slice.
type TokenUsage struct {
	TokenID   snowflake.ID
	TokenName string
	Services  []ServiceUsage
}
