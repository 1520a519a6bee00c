package scoring

import (
	"fmt"
	"os"

	"content-review/internal/config"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ScriptCheck is an operator-supplied safety rule written in Tengo. The
// script receives the flattened content in `text` and must set `score`
// (float in [0,1]) and optionally `flags` (array of strings). It is compiled
// once at startup; a missing or broken script never fails an assessment.
type ScriptCheck struct {
	source []byte
}

// NewScriptCheck loads the configured safety-rule script. Returns (nil, nil)
// when no script is configured.
func NewScriptCheck(cfg *config.Config) (*ScriptCheck, error) {
	if cfg.SafetyRulesScript == "" {
		return nil, nil
	}

	source, err := os.ReadFile(cfg.SafetyRulesScript)
	if err != nil {
		return nil, fmt.Errorf("failed to read safety rules script: %w", err)
	}

	// Compile once up front so a syntax error fails startup, not scoring.
	probe := tengo.NewScript(source)
	probe.SetImports(stdlib.GetModuleMap("text", "math"))
	_ = probe.Add("text", "")
	if _, err := probe.Compile(); err != nil {
		return nil, fmt.Errorf("failed to compile safety rules script: %w", err)
	}

	return &ScriptCheck{source: source}, nil
}

// Run evaluates the rule against the given text.
func (c *ScriptCheck) Run(text string) (float64, []string, error) {
	script := tengo.NewScript(c.source)
	script.SetImports(stdlib.GetModuleMap("text", "math"))
	if err := script.Add("text", text); err != nil {
		return 0, nil, err
	}

	compiled, err := script.Run()
	if err != nil {
		return 0, nil, fmt.Errorf("safety rules script failed: %w", err)
	}

	score := compiled.Get("score").Float()

	var flags []string
	for _, v := range compiled.Get("flags").Array() {
		if s, ok := v.(string); ok {
			flags = append(flags, s)
		}
	}

	return score, flags, nil
}
