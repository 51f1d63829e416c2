package pipeline

import (
	"fmt"

	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/connect"
	"github.com/matzehuels/junction/pkg/distance"
	pkgio "github.com/matzehuels/junction/pkg/io"
)

// Report converts the result into its serializable form.
func (r *Result) Report() *pkgio.Report {
	points := r.Input.Points
	link := func(e distance.Edge) pkgio.Link {
		return pkgio.Link{A: points[e.A].Key, B: points[e.B].Key, Weight: e.Weight}
	}

	rep := &pkgio.Report{
		RunID:       r.RunID,
		InputHash:   r.Input.Hash(),
		Policy:      r.Policy.String(),
		Answer:      r.Answer,
		Points:      len(points),
		Pairs:       r.Pairs,
		Connections: r.Connections,
		Circuits:    make([]pkgio.Circuit, len(r.Circuits)),
		Links:       make([]pkgio.Link, len(r.Links)),
		Summary:     r.Summary,
	}
	if r.Policy == connect.PolicyBudget {
		budget := r.Budget
		rep.Budget = &budget
	}
	for i, c := range r.Circuits {
		members := make([]string, len(c.Members))
		for j, p := range c.Members {
			members[j] = points[p].Key
		}
		rep.Circuits[i] = pkgio.Circuit{ID: c.ID, Size: c.Size(), Members: members}
	}
	for i, e := range r.Links {
		rep.Links[i] = link(e)
	}
	if r.Last != nil {
		l := link(*r.Last)
		rep.Last = &l
	}
	return rep
}

// fromReport rebuilds a result over r.Input from a cached report.
func (r *Result) fromReport(rep *pkgio.Report) error {
	if rep.InputHash != r.Input.Hash() {
		return fmt.Errorf("report is for input %s", rep.InputHash)
	}
	index := make(map[string]int, r.Input.Len())
	for _, p := range r.Input.Points {
		index[p.Key] = p.Index
	}
	lookup := func(key string) (int, error) {
		i, ok := index[key]
		if !ok {
			return 0, fmt.Errorf("report references unknown point %q", key)
		}
		return i, nil
	}
	edge := func(l pkgio.Link) (distance.Edge, error) {
		a, err := lookup(l.A)
		if err != nil {
			return distance.Edge{}, err
		}
		b, err := lookup(l.B)
		if err != nil {
			return distance.Edge{}, err
		}
		return distance.Edge{A: a, B: b, Weight: l.Weight}, nil
	}

	r.Circuits = make([]circuit.Circuit, len(rep.Circuits))
	for i, c := range rep.Circuits {
		members := make([]int, len(c.Members))
		for j, key := range c.Members {
			p, err := lookup(key)
			if err != nil {
				return err
			}
			members[j] = p
		}
		r.Circuits[i] = circuit.Circuit{ID: c.ID, Members: members}
	}
	r.Links = make([]distance.Edge, len(rep.Links))
	for i, l := range rep.Links {
		e, err := edge(l)
		if err != nil {
			return err
		}
		r.Links[i] = e
	}
	if rep.Last != nil {
		e, err := edge(*rep.Last)
		if err != nil {
			return err
		}
		r.Last = &e
	}

	r.Answer = rep.Answer
	r.Pairs = rep.Pairs
	r.Connections = rep.Connections
	r.Summary = rep.Summary
	return nil
}
