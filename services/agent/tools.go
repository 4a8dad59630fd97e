package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// AgentTool interface that all tools must implement
type AgentTool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
	InputSchema() *jsonschema.Schema
}

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
)

type Parameter struct {
	Name        string
	Type        ParamType
	ItemType    ParamType
	Description string
	Required    bool
}

// ToolDescriptor is the immutable, model-facing view of a registered tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  []Parameter
	Schema      *jsonschema.Schema
}

func (d ToolDescriptor) parameter(name string) (Parameter, bool) {
	return lo.Find(d.Parameters, func(p Parameter) bool { return p.Name == name })
}

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func describeParameters(schema *jsonschema.Schema) []Parameter {
	if schema == nil || schema.Properties == nil {
		return nil
	}

	required := lo.SliceToMap(schema.Required, func(name string) (string, bool) { return name, true })

	var params []Parameter
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		param := Parameter{
			Name:        pair.Key,
			Type:        ParamType(pair.Value.Type),
			Description: pair.Value.Description,
			Required:    required[pair.Key],
		}
		if pair.Value.Items != nil {
			param.ItemType = ParamType(pair.Value.Items.Type)
		}
		params = append(params, param)
	}
	return params
}

// Registry is the closed set of tools offered to the model. It is built once
// at startup and only read afterwards.
type Registry struct {
	tools       map[string]AgentTool
	descriptors []ToolDescriptor
}

func NewRegistry(tools ...AgentTool) (*Registry, error) {
	r := &Registry{tools: make(map[string]AgentTool, len(tools))}

	for _, tool := range tools {
		name := tool.Name()
		if name == "" {
			return nil, fmt.Errorf("tool with empty name cannot be registered")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("tool %s registered twice", name)
		}

		schema := tool.InputSchema()
		r.tools[name] = tool
		r.descriptors = append(r.descriptors, ToolDescriptor{
			Name:        name,
			Description: tool.Description(),
			Parameters:  describeParameters(schema),
			Schema:      schema,
		})
	}

	return r, nil
}

func (r *Registry) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

func (r *Registry) Names() []string {
	return lo.Map(r.descriptors, func(d ToolDescriptor, _ int) string { return d.Name })
}

func (r *Registry) Len() int {
	return len(r.descriptors)
}

func (r *Registry) Lookup(name string) (ToolDescriptor, bool) {
	return lo.Find(r.descriptors, func(d ToolDescriptor) bool { return d.Name == name })
}

// Invoke validates args against the tool's schema and runs it. Failures
// wrap ErrUnknownTool, ErrInvalidArguments or ErrToolExecution.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (result string, err error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", r.unknownToolError(name)
	}
	descriptor, _ := r.Lookup(name)

	normalized, err := normalizeArguments(descriptor, args)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}

	input, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[ERROR] Tool %s panicked: %v", name, rec)
			result = ""
			err = fmt.Errorf("%w: %s: panic: %v", ErrToolExecution, name, rec)
		}
	}()

	result, err = tool.Call(ctx, string(input))
	if err != nil {
		if errors.Is(err, ErrInvalidArguments) {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrToolExecution, name, err)
	}
	return result, nil
}

func (r *Registry) unknownToolError(name string) error {
	names := r.Names()
	hint := ""
	if suggestion, ok := closestToolName(name, names); ok {
		hint = fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return fmt.Errorf("%w %q%s; available tools: %s", ErrUnknownTool, name, hint, strings.Join(names, ", "))
}

func closestToolName(name string, names []string) (string, bool) {
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		ranks = fuzzy.RankFindNormalizedFold(strings.ReplaceAll(name, "_", ""), names)
	}
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
