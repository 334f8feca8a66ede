package config

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

// Generator is a compiled GeneratorSpec.
type Generator struct {
	count int
	name  *vm.Program
	data  *vm.Program
	id    *vm.Program
}

// exprEnv is the environment generator expressions are compiled and run against.
func exprEnv(index, handler int, url string) map[string]interface{} {
	return map[string]interface{}{
		"index":   index,
		"handler": handler,
		"url":     url,
	}
}

// CompileGenerator compiles the expressions of spec.
func CompileGenerator(spec GeneratorSpec) (*Generator, error) {
	if spec.Count < 1 {
		return nil, fmt.Errorf("generator count must be at least 1, got %d", spec.Count)
	}

	g := &Generator{count: spec.Count}
	var err error
	if g.name, err = compileExpr("name", spec.Name); err != nil {
		return nil, err
	}
	if g.data, err = compileExpr("data", spec.Data); err != nil {
		return nil, err
	}
	if spec.ID != "" {
		if g.id, err = compileExpr("id", spec.ID); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func compileExpr(field, expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("generator %s expression is required", field)
	}
	program, err := expr.Compile(expression, expr.Env(exprEnv(0, 0, "")))
	if err != nil {
		return nil, fmt.Errorf("compile generator %s %q: %w", field, expression, err)
	}
	return program, nil
}

// Responses evaluates the generator for a handler and connection URL.
func (g *Generator) Responses(handler int, url string) ([]mockevent.Response, error) {
	out := make([]mockevent.Response, 0, g.count)
	for i := 0; i < g.count; i++ {
		env := exprEnv(i, handler, url)

		name, err := expr.Run(g.name, env)
		if err != nil {
			return out, fmt.Errorf("eval generator name: %w", err)
		}
		data, err := expr.Run(g.data, env)
		if err != nil {
			return out, fmt.Errorf("eval generator data: %w", err)
		}
		resp := mockevent.Response{Name: toString(name), Data: data}
		if g.id != nil {
			id, err := expr.Run(g.id, env)
			if err != nil {
				return out, fmt.Errorf("eval generator id: %w", err)
			}
			resp.ID = toString(id)
		}
		out = append(out, resp)
	}
	return out, nil
}

// ResponseFunc adapts the generator to a handler. Each generated response is
// sent immediately; an evaluation error raises the handler error event with
// the evaluator's message.
func (g *Generator) ResponseFunc() mockevent.ResponseFunc {
	return func(h *mockevent.Handler, c *mockevent.Connection) {
		responses, err := g.Responses(h.ID(), c.URL())
		for _, resp := range responses {
			h.Send(resp)
		}
		if err != nil {
			h.Error(err)
		}
	}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
