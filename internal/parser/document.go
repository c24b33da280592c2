package parser

import (
	"github.com/spf13/cast"

	"github.com/imishinist/n8n-timings/internal/models"
)

const (
	defaultWorkflowName = "Unknown"
	defaultStatus       = "unknown"
)

// Document validates a decoded execution record and applies defaults. Any
// missing or mistyped path degrades to an empty value.
func Document(tree any) *models.ExecutionDocument {
	doc := &models.ExecutionDocument{
		WorkflowName: defaultWorkflowName,
		Status:       defaultStatus,
	}

	root, ok := tree.(*Object)
	if !ok {
		return doc
	}

	doc.ID = stringAt(root, "id")
	doc.WorkflowID = stringAt(root, "workflowId")
	if status := stringAt(root, "status"); status != "" {
		doc.Status = status
	}
	doc.StartedAt = scalarAt(root, "startedAt")
	doc.StoppedAt = scalarAt(root, "stoppedAt")
	doc.CreatedAt = stringAt(root, "createdAt")

	workflowData := objectAt(root, "workflowData")
	if name := stringAt(workflowData, "name"); name != "" {
		doc.WorkflowName = name
	}
	doc.Workflow = workflowDefinition(workflowData)

	runData, ok := lookup(root, "data", "resultData", "runData").(*Object)
	if ok {
		doc.HasRunDataSection = true
		doc.RunData = runDataFrom(runData)
	}

	return doc
}

func runDataFrom(obj *Object) models.RunData {
	runData := make(models.RunData, 0, obj.Len())
	for _, name := range obj.Keys() {
		v, _ := obj.Get(name)
		entries, ok := v.([]any)
		if !ok {
			continue
		}

		node := models.NodeRuns{Name: name}
		for _, entry := range entries {
			attempt, ok := entry.(*Object)
			if !ok {
				continue
			}
			node.Attempts = append(node.Attempts, rawAttempt(attempt))
		}
		runData = append(runData, node)
	}
	return runData
}

func rawAttempt(obj *Object) models.RawAttempt {
	attempt := models.RawAttempt{
		StartTime:          scalarAt(obj, "startTime"),
		ExecutionTimeValid: true,
		ExecutionStatus:    defaultStatus,
	}

	if v, ok := obj.Get("executionTime"); ok && v != nil {
		if _, isBool := v.(bool); isBool {
			attempt.ExecutionTimeValid = false
		} else {
			ms, err := cast.ToFloat64E(v)
			attempt.ExecutionTime = ms
			attempt.ExecutionTimeValid = err == nil
		}
	}
	if status := stringAt(obj, "executionStatus"); status != "" {
		attempt.ExecutionStatus = status
	}
	if v, ok := obj.Get("executionIndex"); ok {
		attempt.ExecutionIndex = cast.ToInt(v)
	}

	return attempt
}

func workflowDefinition(obj *Object) models.WorkflowDefinition {
	var def models.WorkflowDefinition

	if nodes, ok := valueAt(obj, "nodes").([]any); ok {
		for _, entry := range nodes {
			n, ok := entry.(*Object)
			if !ok {
				continue
			}
			node := models.WorkflowNode{
				ID:   stringAt(n, "id"),
				Name: stringAt(n, "name"),
				Type: stringAt(n, "type"),
			}
			if pos, ok := valueAt(n, "position").([]any); ok {
				for _, p := range pos {
					if f, err := cast.ToFloat64E(p); err == nil {
						node.Position = append(node.Position, f)
					}
				}
			}
			if node.ID == "" && node.Name == "" {
				continue
			}
			def.Nodes = append(def.Nodes, node)
		}
	}

	connections := objectAt(obj, "connections")
	for _, source := range connections.Keys() {
		v, _ := connections.Get(source)
		def.Connections = append(def.Connections, models.Connection{
			Source:  source,
			Targets: collectTargets(v),
		})
	}

	return def
}

// collectTargets gathers target node references from either a plain list of
// ids or n8n's nested {"main": [[{"node": ...}]]} shape.
func collectTargets(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, collectTargets(item)...)
		}
		return out
	case *Object:
		if node, ok := t.Get("node"); ok {
			return collectTargets(cast.ToString(node))
		}
		var out []string
		for _, key := range t.Keys() {
			item, _ := t.Get(key)
			out = append(out, collectTargets(item)...)
		}
		return out
	}
	return nil
}

func lookup(v any, path ...string) any {
	for _, key := range path {
		obj, ok := v.(*Object)
		if !ok {
			return nil
		}
		v, _ = obj.Get(key)
	}
	return v
}

func valueAt(obj *Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

func objectAt(obj *Object, key string) *Object {
	o, _ := valueAt(obj, key).(*Object)
	return o
}

// scalarAt returns the value under key unless it is a nested structure.
func scalarAt(obj *Object, key string) any {
	switch v := valueAt(obj, key).(type) {
	case *Object, []any:
		return nil
	default:
		return v
	}
}

func stringAt(obj *Object, key string) string {
	s, err := cast.ToStringE(scalarAt(obj, key))
	if err != nil {
		return ""
	}
	return s
}
