package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/pomo/internal/logging"
)

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)

	b.Notify(Start)
	assert.Equal(t, "\a", buf.String())

	buf.Reset()
	b.Notify(WorkEnd)
	assert.Equal(t, "\a\a", buf.String())

	buf.Reset()
	b.Notify(BreakEnd)
	assert.Equal(t, "\a\a\a", buf.String())
}

func TestMulti(t *testing.T) {
	var got []Kind
	var logBuf bytes.Buffer
	m := Multi{
		Func(func(k Kind) { got = append(got, k) }),
		NewLog(logging.NewWriterLogger(&logBuf, "info", nil)),
		Nop{},
	}

	m.Notify(Start)
	m.Notify(BreakEnd)
	assert.Equal(t, []Kind{Start, BreakEnd}, got)
	assert.Contains(t, logBuf.String(), `"kind":"break-end"`)
}
