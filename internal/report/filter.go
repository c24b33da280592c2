package report

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/juju/errors"

	"github.com/imishinist/n8n-timings/internal/models"
)

// filterEnv is what a --where expression sees for each node.
type filterEnv struct {
	Name    string  `expr:"name"`
	Count   int     `expr:"executions"`
	Total   float64 `expr:"total"`
	Average float64 `expr:"average"`
	Min     float64 `expr:"min_time"`
	Max     float64 `expr:"max_time"`
	Success int     `expr:"success"`
	Errors  int     `expr:"errors"`
	Rate    float64 `expr:"rate"`
}

// Filter selects nodes with a boolean expression such as
// `executions > 1 && rate < 100`. Identifiers avoid the names of expr
// builtins (count, min, max).
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles src. An empty expression yields a nil filter that
// keeps every node.
func CompileFilter(src string) (*Filter, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, errors.Annotatef(err, "invalid filter %q", src)
	}
	return &Filter{source: src, program: program}, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the filter against one node.
func (f *Filter) Match(s *models.NodeStats) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, filterEnv{
		Name:    s.NodeName,
		Count:   s.Count,
		Total:   s.TotalSeconds,
		Average: s.AverageSeconds,
		Min:     s.MinSeconds,
		Max:     s.MaxSeconds,
		Success: s.SuccessCount,
		Errors:  s.ErrorCount,
		Rate:    s.SuccessRatePct,
	})
	if err != nil {
		return false, errors.Annotatef(err, "filter %q on node %q", f.source, s.NodeName)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply narrows an analysis to the nodes the filter matches.
func (f *Filter) Apply(a *models.ExecutionAnalysis) (*models.ExecutionAnalysis, error) {
	if f == nil || a == nil {
		return a, nil
	}
	return a.Filter(f.Match)
}
