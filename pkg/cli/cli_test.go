package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileTable [][]string

func (t fileTable) Header() []string { return []string{"NAME", "DAY"} }
func (t fileTable) Rows() [][]string { return t }

func TestErrors(t *testing.T) {
	cfgErr := NewConfigError("server.base_path", "must start with /")
	assert.Equal(t, "config error in server.base_path: must start with /", cfgErr.Error())

	cause := errors.New("yaml: line 3: bad indentation")
	wrapped := WrapConfigError(cause)
	assert.Equal(t, "config error: yaml: line 3: bad indentation", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	cmdErr := NewCommandError("run", cause)
	assert.Equal(t, "command run failed: yaml: line 3: bad indentation", cmdErr.Error())
	assert.ErrorIs(t, cmdErr, cause)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatText, "text": FormatText, "JSON": FormatJSON, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestTextFormatter(t *testing.T) {
	f := NewFormatter(FormatText)

	t.Run("string slice", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatTo(&buf, []string{"alpha", "beta"}))
		assert.Equal(t, "alpha\nbeta\n", buf.String())
	})

	t.Run("raw json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatTo(&buf, json.RawMessage(`{"a":1}`)))
		assert.Equal(t, "{\"a\":1}\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatTo(&buf, fileTable{{"notes-export-a.json", "2024-01-01"}}))
		assert.Equal(t, "NAME                 DAY\nnotes-export-a.json  2024-01-01\n", buf.String())
	})
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).FormatTo(&buf, map[string][]string{"names": {"alpha"}}))
	assert.JSONEq(t, `{"names":["alpha"]}`, buf.String())
}

func TestCSVFormatter(t *testing.T) {
	f := NewFormatter(FormatCSV)

	var buf bytes.Buffer
	require.NoError(t, f.FormatTo(&buf, fileTable{{"a.json", "2024-01-01"}, {"b,c.json", "2024-01-02"}}))
	assert.Equal(t, "NAME,DAY\na.json,2024-01-01\n\"b,c.json\",2024-01-02\n", buf.String())

	assert.Error(t, f.FormatTo(&buf, []string{"alpha"}))
}

func TestSignalContext(t *testing.T) {
	ctx, stop := SignalContext(context.Background())
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before any signal")
	default:
	}

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}
