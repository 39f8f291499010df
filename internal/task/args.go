package task

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/bbeckley/ecolityper/internal/config"
)

// runVariables builds the evaluation context a manifest's args expression is
// evaluated against: the staged input name (or pattern), the derived glob
// pattern, the shared output root, and the task's thread budget.
func runVariables(input, pattern, output string, threads int) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"input":   cty.StringVal(input),
			"pattern": cty.StringVal(pattern),
			"output":  cty.StringVal(output),
			"threads": cty.NumberIntVal(int64(threads)),
		},
	}
}

// evalArgs evaluates a spec's args expression into the final argument list.
func evalArgs(spec *config.Spec, evalCtx *hcl.EvalContext) ([]string, error) {
	val, diags := spec.Args.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating args for tool %q: %w", spec.Name, diags)
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("args for tool %q must be a list, got %s", spec.Name, val.Type().FriendlyName())
	}

	var args []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		s, err := argString(elem)
		if err != nil {
			return nil, fmt.Errorf("args for tool %q: %w", spec.Name, err)
		}
		args = append(args, s)
	}
	return args, nil
}

// argString renders a single argument element. Numbers are accepted so a
// manifest can pass the thread budget straight through.
func argString(val cty.Value) (string, error) {
	if !val.IsKnown() || val.IsNull() {
		return "", fmt.Errorf("argument value is null")
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return fmt.Sprintf("%d", i), nil
		}
		return bf.Text('f', -1), nil
	case cty.Bool:
		return fmt.Sprintf("%t", val.True()), nil
	default:
		return "", fmt.Errorf("unsupported argument type: %s", val.Type().FriendlyName())
	}
}
