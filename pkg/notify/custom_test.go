package notify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script in a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "notify.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o700)) //nolint:gosec // test script needs execute permission
	return p
}

func TestCustomChannel_Send(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	t.Run("pipes json to script stdin", func(t *testing.T) {
		r := Result{
			Status:   "failure",
			Suite:    "default",
			BaseURL:  "http://localhost:8888",
			Driver:   "playwright",
			Duration: "12s",
			Passed:   1,
			Failed:   1,
			Scenarios: []ScenarioResult{
				{Name: "basic", Status: "pass"},
				{Name: "env-r-kernel", Status: "fail", Error: `selector ".kernel_indicator_name": expected text "R", got "Python 3"`},
			},
			Error: "env-r-kernel: kernel mismatch",
		}

		outputFile := filepath.Join(t.TempDir(), "output.json")
		ch := newCustomChannel(writeScript(t, "cat > "+outputFile))
		require.NoError(t, ch.send(context.Background(), r))

		data, err := os.ReadFile(outputFile) //nolint:gosec // path from t.TempDir()
		require.NoError(t, err)

		var got Result
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, r, got)
		assert.Contains(t, string(data), `"base_url":"http://localhost:8888"`)
	})

	t.Run("summary in env", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "env.txt")
		ch := newCustomChannel(writeScript(t, `echo "$NBCHECK_STATUS $NBCHECK_SUITE $NBCHECK_PASSED/$NBCHECK_FAILED" > `+out))
		require.NoError(t, ch.send(t.Context(), Result{Status: "failure", Suite: "r-env", Passed: 1, Failed: 2}))

		data, err := os.ReadFile(out) //nolint:gosec // path from t.TempDir()
		require.NoError(t, err)
		assert.Equal(t, "failure r-env 1/2\n", string(data))
	})

	t.Run("non-zero exit code returns error", func(t *testing.T) {
		ch := newCustomChannel(writeScript(t, "exit 3"))
		err := ch.send(context.Background(), Result{Status: "success"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit status 3")
		assert.NotContains(t, err.Error(), "output:")
	})

	t.Run("script output included in error message", func(t *testing.T) {
		ch := newCustomChannel(writeScript(t, "echo stdout info\necho stderr info >&2\nexit 1"))
		err := ch.send(context.Background(), Result{Status: "success"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output:")
		assert.Contains(t, err.Error(), "stdout info")
		assert.Contains(t, err.Error(), "stderr info")
	})

	t.Run("timeout kills script", func(t *testing.T) {
		ch := newCustomChannel(writeScript(t, "sleep 10"))
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		require.Error(t, ch.send(ctx, Result{Status: "success"}))
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("nonexistent script returns error", func(t *testing.T) {
		ch := newCustomChannel("/nonexistent/script.sh")
		err := ch.send(context.Background(), Result{Status: "success"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "script /nonexistent/script.sh")
	})
}
