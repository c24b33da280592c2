package topology

import (
	"fmt"
	"strings"

	"github.com/imishinist/n8n-timings/internal/models"
)

// DOT renders the topology as a Graphviz digraph. When an analysis is given,
// nodes are coloured by their run outcome and labelled with attempt counts;
// run-data nodes missing from the definition are drawn dashed.
func DOT(t *Topology, analysis *models.ExecutionAnalysis) string {
	r := &dotRenderer{sb: &strings.Builder{}, analysis: analysis}

	r.write("digraph D {")
	r.write("rankdir=LR")
	for _, n := range t.Nodes() {
		r.drawNode(n.ID, n.DisplayName, r.stats(n.DisplayName, n.ID), false)
	}
	if analysis != nil {
		for _, name := range analysis.NodeNames() {
			if _, ok := t.Lookup(name); ok {
				continue
			}
			r.drawNode(name, name, r.stats(name), true)
		}
	}
	for _, n := range t.Nodes() {
		for _, target := range n.Outgoing {
			r.write("%s -> %s", idString(n.ID), idString(target))
		}
	}
	if analysis != nil {
		r.write("label=%s", quoteString(analysis.WorkflowName))
	}
	r.write("}")

	return r.sb.String()
}

type dotRenderer struct {
	sb       *strings.Builder
	analysis *models.ExecutionAnalysis
}

func (r *dotRenderer) drawNode(id, label string, stats *models.NodeStats, dashed bool) {
	var styles []string
	if dashed {
		styles = append(styles, "dashed")
	}

	attr := ""
	if r.analysis != nil {
		styles = append(styles, "filled")
		attr = fmt.Sprintf(" fillcolor=\"%s\"", fillColor(stats))
	}
	if len(styles) > 0 {
		attr = fmt.Sprintf(" style=\"%s\"", strings.Join(styles, ",")) + attr
	}
	if stats != nil {
		label = fmt.Sprintf("%s\\n%d runs, %.2fs", label, stats.Count, stats.TotalSeconds)
	}

	r.write("%s [label=%s shape=\"box\"%s]", idString(id), quoteString(label), attr)
}

// stats returns the first of names that has run data.
func (r *dotRenderer) stats(names ...string) *models.NodeStats {
	if r.analysis == nil {
		return nil
	}
	for _, name := range names {
		if s, ok := r.analysis.Stats(name); ok {
			return s
		}
	}
	return nil
}

func fillColor(stats *models.NodeStats) string {
	switch {
	case stats == nil || stats.Count == 0:
		return "white"
	case stats.ErrorCount > 0:
		return "red"
	case stats.SuccessCount == stats.Count:
		return "green"
	default:
		return "yellow"
	}
}

func (r *dotRenderer) write(format string, s ...any) {
	r.sb.WriteString(fmt.Sprintf(format+"\n", s...))
}

func quoteString(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

var idleChars = []string{" ", "'", "\"", "(", ")", "*", "&", "^", "%", "$", "#", "@", "!", "?", "<", ">", "[", "]", "{", "}", ".", "-", "/", ":"}

func idString(s string) string {
	for _, ch := range idleChars {
		s = strings.ReplaceAll(s, ch, "_")
	}
	return "n_" + s
}
