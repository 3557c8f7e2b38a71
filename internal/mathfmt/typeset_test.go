// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathfmt prepares bot-authored math text for display.
package mathfmt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	out   string
	err   error
	panic bool
	seen  []string
}

func (f *fakeEngine) Render(in string) (string, error) {
	f.seen = append(f.seen, in)
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return "", f.err
	}
	if f.out != "" {
		return f.out, nil
	}
	return "\n" + in + "\n", nil
}

// =============================================================================
// TYPESETTER TESTS
// =============================================================================

func TestTypeset_UsesMarkdownConversion(t *testing.T) {
	engine := &fakeEngine{}
	ts := NewTypesetterWithEngine(engine)

	out, err := ts.Typeset(context.Background(), `solve \(x²\) now`, 40)
	require.NoError(t, err)
	assert.Equal(t, "solve `x²` now", out)
	require.Len(t, engine.seen, 1)
}

func TestTypeset_EngineError(t *testing.T) {
	ts := NewTypesetterWithEngine(&fakeEngine{err: errors.New("bad markdown")})

	_, err := ts.Typeset(context.Background(), "x", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeset))
}

func TestTypeset_EnginePanicIsRecovered(t *testing.T) {
	ts := NewTypesetterWithEngine(&fakeEngine{panic: true})

	_, err := ts.Typeset(context.Background(), "x", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeset)
}

func TestTypeset_CanceledContext(t *testing.T) {
	engine := &fakeEngine{}
	ts := NewTypesetterWithEngine(engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ts.Typeset(ctx, "x", 0)
	assert.ErrorIs(t, err, ErrTypeset)
	assert.Empty(t, engine.seen, "engine must not run after cancellation")
}

func TestTypeset_Glamour(t *testing.T) {
	ts, err := NewTypesetter(TypesetterOptions{Theme: "ascii", Width: 60})
	require.NoError(t, err)
	assert.Equal(t, "ascii", ts.Theme())

	out, err := ts.Typeset(context.Background(), Format("x = sqrt(4) and $y^2$"), 0)
	require.NoError(t, err)
	assert.Contains(t, out, "√(4)")
	assert.Contains(t, out, "y²")
}

func TestTypeset_EnginePerWidth(t *testing.T) {
	built := map[int]int{}
	ts := &Typesetter{
		theme:   "dark",
		engines: make(map[int]Engine),
		width:   80,
		newEngine: func(style string, width int) (Engine, error) {
			built[width]++
			return &fakeEngine{}, nil
		},
	}

	for _, w := range []int{40, 40, 0, 80, 100} {
		_, err := ts.Typeset(context.Background(), "x", w)
		require.NoError(t, err)
	}
	assert.Equal(t, map[int]int{40: 1, 80: 1, 100: 1}, built)
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`\(x\)`, "`x`"},
		{`a \(x+1\) b \(y\)`, "a `x+1` b `y`"},
		{"no math here", "no math here"},
		{"\\(a`b\\)", "``a`b``"},
	}
	for _, tc := range tests {
		if got := ToMarkdown(tc.input); got != tc.want {
			t.Errorf("ToMarkdown(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFallback(t *testing.T) {
	got := Fallback("$x^2$")
	if !strings.HasSuffix(got, "$x^2$") {
		t.Errorf("Fallback() = %q, want raw content preserved", got)
	}
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, "dark", resolveTheme("Dark"))
	assert.Equal(t, "light", resolveTheme("light"))
	assert.Equal(t, "ascii", resolveTheme("plain"))
	assert.Contains(t, []string{"dark", "light"}, resolveTheme("auto"))
}
