package interp

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

func TestDispatcherStats(t *testing.T) {
	reg := newTestRegistry(1)
	d := NewDispatcher(nil)

	for _, line := range []string{
		"RECT|1|1|0|0|2|2",
		"RECT|1|1|0|0|2",
		"RECT|1|1|0|0|x|2",
		"FOO|1",
		"FOO|2",
		"",
		"CLEAR|1",
	} {
		_ = d.Dispatch(simprotocol.Parse(line), reg)
	}

	s := d.Stats()
	require.Equal(t, int64(3), s.Dispatched)
	require.Equal(t, int64(1), s.Short)
	require.Equal(t, int64(1), s.Faults)
	require.Equal(t, map[string]int64{"FOO": 2, "": 1}, s.Dropped)
	require.Equal(t, int64(1), d.Faults())

	s.Dropped["FOO"] = 100
	require.Equal(t, int64(2), d.Dropped()["FOO"], "Stats returns a copy")
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	reg := newTestRegistry(1)
	d := NewDispatcher(nil)
	d.Register("BOOM", Handler{MinFields: 1, Apply: func([]string, *screen.Registry) error {
		panic("kaboom")
	}})

	err := d.Dispatch(simprotocol.Parse("BOOM"), reg)
	require.ErrorContains(t, err, "kaboom")
	require.Equal(t, int64(1), d.Faults())

	require.NoError(t, d.Dispatch(simprotocol.Parse("RECT|1|1|0|0|1|1"), reg))
	require.Len(t, primitives(t, reg, 1), 1)
}

func TestDispatcherRegisterOverridesHandler(t *testing.T) {
	reg := newTestRegistry(1)
	d := NewDispatcher(nil)

	var got []string
	d.Register(simprotocol.CmdClear, Handler{MinFields: 2, Apply: func(params []string, _ *screen.Registry) error {
		got = params
		return nil
	}})

	require.NoError(t, d.Dispatch(simprotocol.Parse("CLEAR|3"), reg))
	require.Equal(t, []string{"3"}, got)
	require.Zero(t, reg.Len())
}

func TestDispatcherFaultLoggingIsThrottled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := newTestRegistry(1)
	d := NewDispatcher(logger)

	const total = 50
	for range total {
		err := d.Dispatch(simprotocol.Parse("LINE|1|a|b|c|d"), reg)
		var pe *simprotocol.ParseError
		require.True(t, errors.As(err, &pe))
	}

	logged := strings.Count(buf.String(), "Dropping malformed command")
	require.Positive(t, logged)
	require.Less(t, logged, total)
	require.Equal(t, int64(total), d.Faults())
	require.Contains(t, buf.String(), "command=LINE")
}

func TestDispatcherLogStats(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(slog.New(slog.NewTextHandler(&buf, nil)))
	_ = d.Dispatch(simprotocol.Parse("NOPE|1"), newTestRegistry(1))

	d.LogStats()
	require.Contains(t, buf.String(), "dropped=1")
}
