package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorErr(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-expired.Done()
	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()

	tbl := []struct {
		name     string
		ctx      context.Context
		err      error
		notFound bool
	}{
		{"operation deadline", context.Background(), context.DeadlineExceeded, true},
		{"step deadline surfaced as cancel", expired, context.Canceled, true},
		{"user cancel", canceled, context.Canceled, false},
		{"driver error", context.Background(), errors.New("node detached"), false},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			err := selectorErr(tt.ctx, "#conda_tab", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrElementNotFound), err.Error())
			require.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "#conda_tab")
		})
	}

	assert.NoError(t, selectorErr(context.Background(), "#x", nil))
}

// the chromedp page bounds each call by a timer of its own and by the step ctx through
// context.AfterFunc, whichever fires first decides the error the driver sees.
func TestSelectorErr_StepDeadlineRace(t *testing.T) {
	for range 200 {
		step, cancelStep := context.WithTimeout(context.Background(), 2*time.Millisecond)
		opCtx, cancelOp := context.WithTimeout(context.Background(), waitFor(step, time.Second))
		stop := context.AfterFunc(step, cancelOp)
		<-opCtx.Done()

		err := selectorErr(step, "#missing", opCtx.Err())
		stop()
		cancelOp()
		cancelStep()
		require.ErrorIs(t, err, ErrElementNotFound)
	}
}
