package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/reflow/pkg/layout"
)

func TestCoreFonts_HelveticaWidths(t *testing.T) {
	m, err := NewCoreFonts("")
	require.NoError(t, err)
	assert.Equal(t, "Helvetica", m.Family())

	// H=722 e=556 l=222 l=222 o=556 per 1000 em
	assert.InDelta(t, 22.78, m.Measure("Hello", layout.Regular, 10), 1e-6)
	assert.Greater(t, m.Measure("Hello", layout.Bold, 10), m.Measure("Hello", layout.Regular, 10))
	assert.InDelta(t, 2*m.Measure("Hello", layout.Regular, 10), m.Measure("Hello", layout.Regular, 20), 1e-6)
}

func TestCoreFonts_Deterministic(t *testing.T) {
	m, err := NewCoreFonts("Times")
	require.NoError(t, err)

	want := m.Measure("Reflow keeps widths stable", layout.Regular, 11)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, m.Measure("Reflow keeps widths stable", layout.Regular, 11))
			m.Measure("noise", layout.Bold, 30)
		}()
	}
	wg.Wait()
}

func TestCoreFonts_UnknownFamily(t *testing.T) {
	_, err := NewCoreFonts("NoSuchFont")
	assert.Error(t, err)
}

func TestEncodeWinAnsi(t *testing.T) {
	assert.Equal(t, "caf\xe9", EncodeWinAnsi("café"))
	assert.Equal(t, "\x95 item", EncodeWinAnsi("• item"))
	assert.Equal(t, "a?b", EncodeWinAnsi("a中b"))
}

func TestGoFonts_Measure(t *testing.T) {
	m, err := NewGoFonts()
	require.NoError(t, err)
	defer m.Close()

	regular := m.Measure("Hello world", layout.Regular, 12)
	assert.Greater(t, regular, 0.0)
	assert.GreaterOrEqual(t, m.Measure("Hello world", layout.Bold, 12), regular)
	assert.InEpsilon(t, 2*regular, m.Measure("Hello world", layout.Regular, 24), 0.05)
	assert.Equal(t, regular, m.Measure("Hello world", layout.Regular, 12))
	assert.Zero(t, m.Measure("", layout.Regular, 12))
	assert.Zero(t, m.Measure("x", layout.Regular, 0))
}

func TestNew(t *testing.T) {
	m, err := New("", "")
	require.NoError(t, err)
	assert.IsType(t, &CoreFonts{}, m)

	m, err = New(BackendGoFont, "")
	require.NoError(t, err)
	assert.IsType(t, &GoFonts{}, m)

	_, err = New("bitmap", "")
	assert.Error(t, err)
}
