// Package prompts contains MCP prompt implementations for the Open Targets
// Platform.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	BatchMaxItems int // upper bound on variables_list quoted in guidance
}
