// Package linkgraph resolves note references into a directed graph of vault paths.
package linkgraph

import (
	"path"
	"sort"
	"strings"

	"vaultmind/internal/vault"
)

// Graph is the resolved link structure of one vault snapshot.
type Graph struct {
	outbound map[string]map[string]struct{}
	inbound  map[string]map[string]struct{}
	// Dangling maps a source path to link targets that matched no document.
	Dangling map[string][]string
	paths    []string
}

// Hub is a document with many connections.
type Hub struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// Links returns the total number of connections.
func (h Hub) Links() int {
	return h.Inbound + h.Outbound
}

// Build resolves every document's links against the snapshot. Wiki links
// match by path without extension, file name, title or alias (case
// insensitive); markdown links match by path relative to the source folder,
// then relative to the vault root. Self links are ignored.
func Build(docs []vault.Document) *Graph {
	g := &Graph{
		outbound: make(map[string]map[string]struct{}, len(docs)),
		inbound:  make(map[string]map[string]struct{}, len(docs)),
		Dangling: make(map[string][]string),
	}
	r := newResolver(docs)

	for _, d := range docs {
		g.paths = append(g.paths, d.Path)
		for _, link := range d.Links {
			target, ok := r.resolve(d.Path, link)
			if !ok {
				g.Dangling[d.Path] = append(g.Dangling[d.Path], link.Target)
				continue
			}
			if target == d.Path {
				continue
			}
			addEdge(g.outbound, d.Path, target)
			addEdge(g.inbound, target, d.Path)
		}
	}
	sort.Strings(g.paths)
	return g
}

func addEdge(m map[string]map[string]struct{}, from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(map[string]struct{})
		m[from] = set
	}
	set[to] = struct{}{}
}

// Outbound returns the documents p links to, sorted.
func (g *Graph) Outbound(p string) []string {
	return sortedKeys(g.outbound[p])
}

// Inbound returns the documents linking to p, sorted.
func (g *Graph) Inbound(p string) []string {
	return sortedKeys(g.inbound[p])
}

// Linked reports whether a and b are connected in either direction.
func (g *Graph) Linked(a, b string) bool {
	if _, ok := g.outbound[a][b]; ok {
		return true
	}
	_, ok := g.outbound[b][a]
	return ok
}

// Degree returns the inbound and outbound link counts of p.
func (g *Graph) Degree(p string) (in, out int) {
	return len(g.inbound[p]), len(g.outbound[p])
}

// Connected reports whether p has at least one resolved link in either direction.
func (g *Graph) Connected(p string) bool {
	in, out := g.Degree(p)
	return in+out > 0
}

// Orphans returns documents with no resolved links in either direction, sorted.
func (g *Graph) Orphans() []string {
	var out []string
	for _, p := range g.paths {
		if !g.Connected(p) {
			out = append(out, p)
		}
	}
	return out
}

// Hubs returns documents with at least minLinks connections, most connected
// first, limited to limit entries (0 for all).
func (g *Graph) Hubs(docs []vault.Document, minLinks, limit int) []Hub {
	var hubs []Hub
	for _, d := range docs {
		in, out := g.Degree(d.Path)
		if in+out < minLinks || in+out == 0 {
			continue
		}
		hubs = append(hubs, Hub{Path: d.Path, Title: d.Title, Inbound: in, Outbound: out})
	}
	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].Links() != hubs[j].Links() {
			return hubs[i].Links() > hubs[j].Links()
		}
		return hubs[i].Path < hubs[j].Path
	})
	if limit > 0 && len(hubs) > limit {
		hubs = hubs[:limit]
	}
	return hubs
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type resolver struct {
	byPath map[string]string // lowercase path -> path
	byName map[string]string // lowercase stem, title, alias, path without .md -> path
}

func newResolver(docs []vault.Document) *resolver {
	r := &resolver{
		byPath: make(map[string]string, len(docs)),
		byName: make(map[string]string, len(docs)*2),
	}
	// Paths are registered first so exact path matches win over names.
	for _, d := range docs {
		r.byPath[strings.ToLower(d.Path)] = d.Path
		r.addName(strings.TrimSuffix(d.Path, ".md"), d.Path)
	}
	for _, d := range docs {
		r.addName(d.Stem(), d.Path)
	}
	for _, d := range docs {
		r.addName(d.Title, d.Path)
		for _, alias := range d.Aliases {
			r.addName(alias, d.Path)
		}
	}
	return r
}

// addName keeps the first registration so ambiguous names resolve predictably.
func (r *resolver) addName(name, p string) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	if _, exists := r.byName[key]; !exists {
		r.byName[key] = p
	}
}

func (r *resolver) resolve(source string, link vault.Link) (string, bool) {
	target := strings.TrimSpace(link.Target)
	if target == "" {
		return "", false
	}

	if link.Kind == vault.MarkdownLink {
		candidates := []string{
			path.Clean(path.Join(path.Dir(source), target)),
			path.Clean(strings.TrimPrefix(target, "/")),
		}
		for _, c := range candidates {
			if p, ok := r.lookupPath(c); ok {
				return p, true
			}
		}
		return "", false
	}

	if p, ok := r.lookupPath(strings.TrimPrefix(target, "/")); ok {
		return p, true
	}
	if p, ok := r.byName[strings.ToLower(target)]; ok {
		return p, true
	}
	return "", false
}

func (r *resolver) lookupPath(p string) (string, bool) {
	key := strings.ToLower(p)
	if found, ok := r.byPath[key]; ok {
		return found, true
	}
	if path.Ext(key) != ".md" {
		if found, ok := r.byPath[key+".md"]; ok {
			return found, true
		}
	}
	return "", false
}
