// Package graph links files through the endpoints they share and computes
// PageRank over those links.
package graph

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/phobologic/caretctx/internal/model"
)

// EndpointKey returns the identity of an endpoint URI: the URI without its
// query, with the scheme lower-cased and "//" after the scheme dropped.
func EndpointKey(uri string) string {
	uri = strings.TrimSpace(uri)
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		uri = uri[:i]
	}
	scheme, rest, ok := strings.Cut(uri, ":")
	if !ok {
		return uri
	}
	return strings.ToLower(scheme) + ":" + strings.TrimPrefix(rest, "//")
}

// BuildGraph creates links from files producing to an endpoint to the files
// consuming from it. A finding consumes when its call is one of consumers;
// every other call or attribute finding produces.
func BuildGraph(fileInfos []model.FileInfo, consumers []string) []model.Link {
	// endpoint key → set of files consuming from it
	consumed := make(map[string]map[string]struct{})
	for i := range fileInfos {
		fi := &fileInfos[i]
		for j := range fi.Findings {
			f := &fi.Findings[j]
			if !linkable(f) || !slices.Contains(consumers, f.Call) {
				continue
			}
			key := EndpointKey(f.Value)
			if consumed[key] == nil {
				consumed[key] = make(map[string]struct{})
			}
			consumed[key][fi.Path] = struct{}{}
		}
	}

	type edgeKey struct{ src, tgt string }
	edgeEndpoints := make(map[edgeKey][]string)

	for i := range fileInfos {
		fi := &fileInfos[i]
		for j := range fi.Findings {
			f := &fi.Findings[j]
			if !linkable(f) || slices.Contains(consumers, f.Call) {
				continue
			}
			key := EndpointKey(f.Value)
			targets := consumed[key]
			if targets == nil {
				continue
			}
			// Iterate in sorted order for determinism
			for _, tgt := range sortedKeys(targets) {
				if tgt == fi.Path {
					continue // no self-edges
				}
				ek := edgeKey{fi.Path, tgt}
				if !slices.Contains(edgeEndpoints[ek], key) {
					edgeEndpoints[ek] = append(edgeEndpoints[ek], key)
				}
			}
		}
	}

	var links []model.Link
	for key, endpoints := range edgeEndpoints {
		links = append(links, model.Link{
			Source:    key.src,
			Target:    key.tgt,
			Endpoints: endpoints,
		})
	}

	// Sort for deterministic output
	sort.Slice(links, func(i, j int) bool {
		if links[i].Source != links[j].Source {
			return links[i].Source < links[j].Source
		}
		return links[i].Target < links[j].Target
	})

	return links
}

func linkable(f *model.Finding) bool {
	switch f.Kind {
	case model.Call, model.Attribute, model.Annotation:
		return f.Value != ""
	}
	return false
}

// Rank applies PageRank to fileInfos and sorts them by rank descending, then
// by path.
func Rank(fileInfos []model.FileInfo, links []model.Link) {
	if len(fileInfos) == 0 {
		return
	}

	if len(links) == 0 {
		uniform := 1.0 / float64(len(fileInfos))
		for i := range fileInfos {
			fileInfos[i].Rank = uniform
		}
		sortByRank(fileInfos)
		return
	}

	// Edge from source to target means source produces to target.
	outEdges := make(map[string][]string) // node → list of targets (with repeats for multi-edges)
	outDegree := make(map[string]int)     // total out-edges per node
	nodes := make(map[string]struct{})

	for i := range fileInfos {
		nodes[fileInfos[i].Path] = struct{}{}
	}

	for _, l := range links {
		// Each shared endpoint is an edge
		for range l.Endpoints {
			outEdges[l.Source] = append(outEdges[l.Source], l.Target)
			outDegree[l.Source]++
		}
	}

	ranks := pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)

	for i := range fileInfos {
		fileInfos[i].Rank = ranks[fileInfos[i].Path]
	}
	sortByRank(fileInfos)
}

func sortByRank(fileInfos []model.FileInfo) {
	sort.SliceStable(fileInfos, func(i, j int) bool {
		if fileInfos[i].Rank != fileInfos[j].Rank {
			return fileInfos[i].Rank > fileInfos[j].Rank
		}
		return fileInfos[i].Path < fileInfos[j].Path
	})
}

func pageRank(
	nodes map[string]struct{},
	outEdges map[string][]string,
	outDegree map[string]int,
	alpha float64,
	maxIter int,
	tol float64,
) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Dangling node contribution (nodes with no outgoing edges)
		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			deg := float64(outDegree[src])
			contrib := alpha * rank[src] / deg
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
