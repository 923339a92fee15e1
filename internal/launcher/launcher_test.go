package launcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawn_DoesNotWait(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "done")
	l := New(zerolog.Nop())

	start := time.Now()
	require.NoError(t, l.Spawn("sleep 0.3; touch "+marker))
	assert.Less(t, time.Since(start), 250*time.Millisecond)

	require.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSpawn_Errors(t *testing.T) {
	l := New(zerolog.Nop())
	assert.Error(t, l.Spawn("   "))

	bad := l.WithShell(filepath.Join(t.TempDir(), "no-such-shell"))
	assert.Error(t, bad.Spawn("true"))
	assert.Equal(t, DefaultShell, l.shell, "WithShell must not modify the receiver")
}

func TestPrompt_Editing(t *testing.T) {
	p := NewPrompt()
	_, submit := p.HandleKey("a")
	assert.False(t, submit)
	assert.Empty(t, p.Text(), "inactive prompt ignores keys")

	require.True(t, p.Toggle())
	for _, sym := range []string{"x", "t", "e", "r", "m", "space", "minus", "e", "BackSpace", "Shift_L", "h", "F1"} {
		p.HandleKey(sym)
	}
	assert.Equal(t, "xterm -h", p.Text())

	cmd, submit := p.HandleKey("Return")
	assert.True(t, submit)
	assert.Equal(t, "xterm -h", cmd)
	assert.False(t, p.Active())
}

func TestPrompt_EscapeCancelsAndClears(t *testing.T) {
	p := NewPrompt()
	p.Toggle()
	p.HandleKey("slash")
	p.HandleKey("period")
	assert.Equal(t, "/.", p.Text())

	cmd, submit := p.HandleKey("Escape")
	assert.False(t, submit)
	assert.Empty(t, cmd)
	assert.False(t, p.Active())

	p.Toggle()
	assert.Empty(t, p.Text())
}
