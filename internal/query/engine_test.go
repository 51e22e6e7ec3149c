package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/opentargets-mcp/internal/cache"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	programs, err := cache.NewProgramCache(16)
	require.NoError(t, err)
	return NewEngine(programs)
}

const targetData = `{"target": {"id": "ENSG00000157191", "approvedSymbol": "ZNF217",
	"tractability": [{"modality": "SM", "value": true}, {"modality": "AB", "value": false}]}}`

func TestEngine_Apply_Simple(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Apply(json.RawMessage(targetData), ".data.target.approvedSymbol")
	require.NoError(t, err)
	assert.Equal(t, "ZNF217", result)
}

func TestEngine_Apply_MultipleOutputsBecomeArray(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Apply(json.RawMessage(targetData), ".data.target.tractability[].modality")
	require.NoError(t, err)
	assert.Equal(t, []any{"SM", "AB"}, result)
}

func TestEngine_Apply_Select(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Apply(json.RawMessage(targetData),
		`[.data.target.tractability[] | select(.value) | .modality]`)
	require.NoError(t, err)
	assert.Equal(t, []any{"SM"}, result)
}

func TestEngine_Apply_ObjectConstruction(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Apply(json.RawMessage(targetData), `.data.target | {id, approvedSymbol}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "ENSG00000157191", "approvedSymbol": "ZNF217"}, result)
}

func TestEngine_Apply_NoOutputs(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Apply(json.RawMessage(targetData), ".data.target.missing // empty")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEngine_Apply_RuntimeError(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Apply(json.RawMessage(`{"target": null}`), ".data.target.tractability[]")

	var runtimeErr *RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
	require.Len(t, runtimeErr.Messages, 1)
	assert.Contains(t, runtimeErr.Messages[0], "cannot iterate over: null")
	assert.Contains(t, runtimeErr.Messages[0], "the path may not exist")
}

func TestEngine_Apply_InvalidExpression(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Apply(json.RawMessage(targetData), ".data.target[")

	var exprErr *ExpressionError
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, ".data.target[", exprErr.Expression)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestEngine_Apply_InvalidJSON(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Apply(json.RawMessage(`{invalid}`), ".data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestEngine_Compile_UsesCache(t *testing.T) {
	programs, err := cache.NewProgramCache(4)
	require.NoError(t, err)
	engine := NewEngine(programs)

	first, err := engine.Compile(".data.target.id")
	require.NoError(t, err)
	second, err := engine.Compile(".data.target.id")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, programs.Len())

	_, err = engine.Compile("invalid(")
	require.Error(t, err)
	assert.Equal(t, 1, programs.Len(), "invalid expressions are not cached")
}

func TestEngine_NilCache(t *testing.T) {
	engine := NewEngine(nil)

	result, err := engine.Apply(json.RawMessage(`{"n": 1}`), ".data.n")
	require.NoError(t, err)
	assert.Equal(t, json.Number("1"), result)
}

func TestEngine_Apply_KeepsLargeIntegers(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Apply(json.RawMessage(`{"target": {"rank": 12345678901234567890}}`), ".data.target | {rank}")
	require.NoError(t, err)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Equal(t, `{"rank":12345678901234567890}`, string(out))
}

func TestEngine_ValidateExpression(t *testing.T) {
	engine := newEngine(t)

	assert.NoError(t, engine.ValidateExpression(".data"))
	assert.NoError(t, engine.ValidateExpression(".data.search.hits[:3] | map({id, entity})"))
	assert.NoError(t, engine.ValidateExpression(`.data.items[] | select(.status == "active")`))

	assert.Error(t, engine.ValidateExpression(".name["))
	assert.Error(t, engine.ValidateExpression("invalid("))
	assert.Error(t, engine.ValidateExpression("undefined_function(1)"))
}

func TestRun_Halt(t *testing.T) {
	engine := newEngine(t)
	code, err := engine.Compile(`"stop" | halt_error`)
	require.NoError(t, err)

	_, err = Run(code, nil)

	var runtimeErr *RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
	assert.Contains(t, runtimeErr.Messages[0], "query halted")
}
