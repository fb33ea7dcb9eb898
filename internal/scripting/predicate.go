package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Runner evaluates Lua predicate chunks against scalar environments.
// Each evaluation runs in a fresh sandboxed state so one predicate cannot
// leak globals into the next.
type Runner struct {
	instLimit int
}

// NewRunner returns a Runner with the given per-evaluation instruction
// limit; 0 uses DefaultInstructionLimit.
func NewRunner(instLimit int) *Runner {
	return &Runner{instLimit: instLimit}
}

// EvalPredicate runs chunk with env exposed as Lua globals and returns the
// truthiness of the chunk's return value. Supported env value kinds are
// bool, int, float64, and string; other kinds are skipped.
//
// An empty chunk always matches.
//
// Precondition: r non-nil.
// Postcondition: returns (matched, nil) on success; a Lua error or a
// chunk exceeding the instruction limit returns (false, err).
func (r *Runner) EvalPredicate(chunk string, env map[string]any) (bool, error) {
	if chunk == "" {
		return true, nil
	}

	L := NewSandboxedState(r.instLimit)
	defer L.Close()

	for name, v := range env {
		L.SetGlobal(name, toLua(v))
	}

	if err := L.DoString("return (" + chunk + ")"); err != nil {
		// Retry as a full chunk for predicates written with explicit returns.
		L2 := NewSandboxedState(r.instLimit)
		defer L2.Close()
		for name, v := range env {
			L2.SetGlobal(name, toLua(v))
		}
		if err2 := L2.DoString(chunk); err2 != nil {
			return false, fmt.Errorf("scripting: predicate failed: %w", err)
		}
		return truthy(L2.Get(-1)), nil
	}
	return truthy(L.Get(-1)), nil
}

// toLua converts a supported Go scalar to its Lua value.
func toLua(v any) lua.LValue {
	switch x := v.(type) {
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	default:
		return lua.LNil
	}
}

// truthy applies Lua truthiness: everything except nil and false is true.
func truthy(v lua.LValue) bool {
	return v != lua.LNil && v != lua.LFalse
}
