package io

import "github.com/matzehuels/junction/pkg/reduce"

// Report is the serializable outcome of one run.
type Report struct {
	RunID       string         `json:"run_id,omitempty"`
	InputHash   string         `json:"input_hash"`
	Policy      string         `json:"policy"`
	Budget      *int           `json:"budget,omitempty"`
	Answer      int64          `json:"answer"`
	Points      int            `json:"points"`
	Pairs       int            `json:"pairs"`
	Connections int            `json:"connections"`
	Circuits    []Circuit      `json:"circuits"`
	Links       []Link         `json:"links"`
	Last        *Link          `json:"last,omitempty"`
	Summary     reduce.Summary `json:"summary"`
}

// Circuit is one final circuit with its members in join order.
type Circuit struct {
	ID      int      `json:"id"`
	Size    int      `json:"size"`
	Members []string `json:"members"`
}

// Link is a connection between two points, identified by key.
type Link struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int64  `json:"weight"`
}
