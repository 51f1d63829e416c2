package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Policy names a report may carry.
const (
	policyBudget = "budget"
	policyUnify  = "unify"
)

// ReadJSON decodes a report from r and validates it.
//
// ReadJSON returns an error if the JSON is malformed, the policy is
// unknown, a circuit's size disagrees with its member list, a point appears
// in two circuits, or a link references a point outside every circuit.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validate(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// UnmarshalJSON decodes and validates a report held in memory.
func UnmarshalJSON(data []byte) (*Report, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads and validates the report file at path.
func ImportJSON(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func validate(rep *Report) error {
	switch rep.Policy {
	case policyBudget, policyUnify:
	default:
		return fmt.Errorf("unknown policy %q", rep.Policy)
	}

	member := make(map[string]int)
	for _, c := range rep.Circuits {
		if c.Size != len(c.Members) {
			return fmt.Errorf("circuit %d: size %d but %d members", c.ID, c.Size, len(c.Members))
		}
		for _, key := range c.Members {
			if prev, dup := member[key]; dup {
				return fmt.Errorf("point %q in circuits %d and %d", key, prev, c.ID)
			}
			member[key] = c.ID
		}
	}

	links := rep.Links
	if rep.Last != nil {
		links = append(links[:len(links):len(links)], *rep.Last)
	}
	for _, l := range links {
		ca, okA := member[l.A]
		cb, okB := member[l.B]
		if !okA || !okB || ca != cb {
			return fmt.Errorf("link %s:%s does not lie within one circuit", l.A, l.B)
		}
	}
	return nil
}
