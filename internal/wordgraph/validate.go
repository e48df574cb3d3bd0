package wordgraph

import (
	"fmt"
	"strings"
)

// Problem is a single structural defect found while validating a load.
type Problem struct {
	// Edge is the index of the offending edge, or -1 for node problems.
	Edge int
	// Field names the offending attribute: "source", "target", "id" or "status".
	Field string
	// ID is the offending identifier or value.
	ID     string
	Reason string
}

func (p Problem) String() string {
	if p.Edge >= 0 {
		return fmt.Sprintf("edge %d: %s %q %s", p.Edge, p.Field, p.ID, p.Reason)
	}
	return fmt.Sprintf("node %s %q: %s", p.Field, p.ID, p.Reason)
}

// ValidationError enumerates every problem that caused a load to be rejected.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, p.String())
	}
	return fmt.Sprintf("graph validation failed:\n  %s", strings.Join(lines, "\n  "))
}

// DanglingEdges returns the indices of edges with a missing endpoint.
func (e *ValidationError) DanglingEdges() []int {
	var idx []int
	seen := make(map[int]bool)
	for _, p := range e.Problems {
		if p.Edge >= 0 && !seen[p.Edge] {
			seen[p.Edge] = true
			idx = append(idx, p.Edge)
		}
	}
	return idx
}

// validate performs all structural checks and returns the id index of
// the node set when it is valid.
func validate(nodes []NodeSpec, edges []Edge) (map[string]int, error) {
	var problems []Problem

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			problems = append(problems, Problem{Edge: -1, Field: "id", ID: fmt.Sprintf("#%d", i), Reason: "is empty"})
			continue
		}
		if _, dup := index[n.ID]; dup {
			problems = append(problems, Problem{Edge: -1, Field: "id", ID: n.ID, Reason: "is duplicated"})
			continue
		}
		index[n.ID] = i
		if !n.Status.Valid() {
			problems = append(problems, Problem{Edge: -1, Field: "status", ID: string(n.Status), Reason: "must be ghost or solid"})
		}
	}

	for i, e := range edges {
		if _, ok := index[e.SourceID]; !ok {
			problems = append(problems, Problem{Edge: i, Field: "source", ID: e.SourceID, Reason: "references a nonexistent node"})
		}
		if _, ok := index[e.TargetID]; !ok {
			problems = append(problems, Problem{Edge: i, Field: "target", ID: e.TargetID, Reason: "references a nonexistent node"})
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return index, nil
}
