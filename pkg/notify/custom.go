package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// customChannel hands results to a user script: JSON on stdin, summary in NBCHECK_* env vars.
type customChannel struct {
	script string
}

func newCustomChannel(script string) *customChannel {
	return &customChannel{script: script}
}

// env returns the process environment extended with the result summary.
func (c *customChannel) env(r Result) []string {
	return append(os.Environ(),
		"NBCHECK_STATUS="+r.Status,
		"NBCHECK_SUITE="+r.Suite,
		"NBCHECK_BASE_URL="+r.BaseURL,
		"NBCHECK_PASSED="+strconv.Itoa(r.Passed),
		"NBCHECK_FAILED="+strconv.Itoa(r.Failed),
	)
}

// send runs the script once per result. its output is only surfaced on failure.
func (c *customChannel) send(ctx context.Context, r Result) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.script) //nolint:gosec // script path comes from user config
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Env = c.env(r)
	cmd.Stdout, cmd.Stderr = &out, &out
	cmd.WaitDelay = time.Second // a killed script's children may hold the pipe open

	runErr := cmd.Run()
	if runErr == nil {
		return nil
	}
	if msg := strings.TrimSpace(out.String()); msg != "" {
		return fmt.Errorf("script %s: %w, output: %s", c.script, runErr, msg)
	}
	return fmt.Errorf("script %s: %w", c.script, runErr)
}
