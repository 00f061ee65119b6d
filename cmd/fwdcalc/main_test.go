package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const curveJSON = `"points":[{"tenor":"1M","days":30,"swapPoint":5},{"tenor":"3M","days":90,"swapPoint":15}]`

func runCLI(t *testing.T, input string, args ...string) (int, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return code, strings.TrimSpace(stdout.String())
}

func TestRun_SingleRequest(t *testing.T) {
	code, out := runCLI(t, `{"taskId":"t1","spotRate":1300,"spotDate":"2025-02-03","settlementDate":"2025-04-04",`+curveJSON+`}`)
	require.Equal(t, 0, code, out)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "t1", got["taskId"])
	assert.Equal(t, "2025-02-03", got["spotDate"])
	assert.EqualValues(t, 60, got["targetDays"])
	assert.InDelta(t, 10, got["interpolatedSwapPoint"], 1e-9)
	assert.InDelta(t, 1300.1, got["forwardRate"], 1e-9)
	assert.NotContains(t, got, "error")
}

func TestRun_TradeDateUsesEmbeddedHolidays(t *testing.T) {
	// Seollal 2025-01-29..31 pushes spot for 2025-01-27 out to 2025-02-03.
	code, out := runCLI(t, `{"spotRate":1300,"tradeDate":"2025-01-27","settlementDate":"2025-02-03",`+curveJSON+`}`)
	require.Equal(t, 0, code, out)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2025-02-03", got["spotDate"])
	assert.InDelta(t, 1300, got["forwardRate"], 1e-9)
}

func TestRun_ArrayWithFailures(t *testing.T) {
	input := `[
		{"taskId":"ok","spotRate":1300,"spotDate":"2025-02-03","settlementDate":"2025-04-04",` + curveJSON + `},
		{"taskId":"early","spotRate":1300,"spotDate":"2025-02-03","settlementDate":"2025-01-31",` + curveJSON + `},
		{"taskId":"bad","spotRate":-1,"spotDate":"2025-02-03","settlementDate":"2025-04-04"}
	]`
	code, out := runCLI(t, input)
	assert.Equal(t, 1, code)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)

	assert.NotContains(t, got[0], "error")
	assert.Equal(t, "INVALID_SETTLEMENT", got[1]["errorType"])
	assert.NotEmpty(t, got[1]["error"])
	assert.Contains(t, got[2]["error"], "spotRate")
	assert.NotContains(t, got[2], "forwardRate")
}

func TestRun_BadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "empty input"},
		{"not json", "{", "parse JSON"},
		{"empty array", "[]", "empty request array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := runCLI(t, tt.input)
			assert.Equal(t, 1, code)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRun_BadFlags(t *testing.T) {
	code, _ := runCLI(t, "{}", "-nope")
	assert.Equal(t, 2, code)
}

func TestRun_FailuresLoggedWithTaskID(t *testing.T) {
	var stdout, stderr bytes.Buffer
	input := `{"taskId":"desk-42","spotRate":1300,"spotDate":"2025-02-03","settlementDate":"2025-01-15",` + curveJSON + `}`
	code := run(nil, strings.NewReader(input), &stdout, &stderr)
	require.Equal(t, 1, code)

	logs := stderr.String()
	assert.Contains(t, logs, `"msg":"calculation failed"`)
	assert.Contains(t, logs, `"trace_id":"desk-42"`)
	assert.Contains(t, logs, `"component":"fwdcalc"`)
}
