// Package depgraph orders a batch of artifacts so that every artifact is
// applied after the artifacts it references.
package depgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

// Edge is a dependency arc: From must be applied before To.
type Edge struct {
	From string
	To   string
}

// Graph is the dependency graph of a single batch. Nodes are keyed by the
// artifact's unique identifier, so two artifacts with the same identifier
// share one node.
type Graph struct {
	g graph.Graph[string, string]

	// members maps a node to the batch artifacts carrying its identifier,
	// in input order.
	members map[string][]domain.Artifact
	// order is node insertion order.
	order []string
}

// Build constructs the dependency graph for one batch. A reference made by
// a bare model invariant id depends on every batch model with that
// invariant id. A reference to an identifier that is not in the batch is
// dropped with a warning. Build does no I/O and cannot fail.
func Build(artifacts []domain.Artifact) *Graph {
	index := make(map[string]domain.Artifact, len(artifacts))
	byInvariant := make(map[string][]string)
	for _, a := range artifacts {
		id := a.UniqueID()
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = a
		if m, ok := a.(*domain.ModelArtifact); ok {
			byInvariant[m.InvariantID] = append(byInvariant[m.InvariantID], id)
		}
	}

	dg := &Graph{
		g:       graph.New(graph.StringHash, graph.Directed()),
		members: make(map[string][]domain.Artifact, len(artifacts)),
	}

	for _, a := range artifacts {
		id := a.UniqueID()
		dg.addNode(id)
		dg.members[id] = append(dg.members[id], a)

		for _, ref := range a.Dependencies() {
			targets := resolve(ref, index, byInvariant)
			if len(targets) == 0 {
				log.WithFields(log.Fields{
					"artifact":   id,
					"dependency": ref,
				}).Warn("dependency not supplied in batch, ignoring")
				continue
			}
			for _, depID := range targets {
				dg.addNode(depID)
				dg.addEdge(depID, id)
			}
		}
	}

	return dg
}

func resolve(ref string, index map[string]domain.Artifact, byInvariant map[string][]string) []string {
	if _, ok := index[ref]; ok {
		return []string{ref}
	}
	return byInvariant[ref]
}

func (dg *Graph) addNode(id string) {
	err := dg.g.AddVertex(id)
	if err == nil {
		dg.order = append(dg.order, id)
	}
}

func (dg *Graph) addEdge(from, to string) {
	// Duplicate references collapse onto the existing edge.
	if err := dg.g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		log.WithError(err).WithFields(log.Fields{"from": from, "to": to}).Warn("add dependency edge")
	}
}

// Len returns the number of nodes.
func (dg *Graph) Len() int {
	return len(dg.order)
}

// Has reports whether a node exists for the identifier.
func (dg *Graph) Has(id string) bool {
	_, err := dg.g.Vertex(id)
	return err == nil
}

// Edges returns every dependency arc, sorted for stable comparison.
func (dg *Graph) Edges() []Edge {
	edges, err := dg.g.Edges()
	if err != nil {
		return nil
	}
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, Edge{From: e.Source, To: e.Target})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Sort returns the batch artifacts in an order where every dependency
// precedes its dependents (Kahn's algorithm). The order among independent
// artifacts is not specified. A cycle yields *domain.CircularDependencyError.
func (dg *Graph) Sort() ([]domain.Artifact, error) {
	outbound, err := dg.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("read adjacency map: %w", err)
	}
	preds, err := dg.g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("read predecessor map: %w", err)
	}

	inbound := make(map[string]map[string]struct{}, len(preds))
	for id, from := range preds {
		set := make(map[string]struct{}, len(from))
		for p := range from {
			set[p] = struct{}{}
		}
		inbound[id] = set
	}

	ready := make([]string, 0, len(dg.order))
	for _, id := range dg.order {
		if len(inbound[id]) == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]domain.Artifact, 0, len(dg.order))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		sorted = append(sorted, dg.members[n]...)

		for m := range outbound[n] {
			delete(inbound[m], n)
			if len(inbound[m]) == 0 {
				ready = append(ready, m)
			}
		}
		outbound[n] = nil
	}

	var unresolved []string
	for _, id := range dg.order {
		if len(inbound[id]) > 0 {
			unresolved = append(unresolved, id)
		}
	}
	if len(unresolved) > 0 {
		return nil, &domain.CircularDependencyError{Unresolved: unresolved}
	}

	return sorted, nil
}

// Sort orders one batch. Nil, empty and single-element batches are returned
// unchanged without building a graph.
func Sort(artifacts []domain.Artifact) ([]domain.Artifact, error) {
	if len(artifacts) <= 1 {
		return artifacts, nil
	}
	return Build(artifacts).Sort()
}
