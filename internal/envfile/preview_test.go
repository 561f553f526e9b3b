package envfile

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_ShowsReplacedLine(t *testing.T) {
	s := newTestStore(t, "A=1\nMAIL_HOST=old.example.com\nB=2\n")

	diff, err := s.Preview("MAIL_HOST", "smtp.example.com")

	require.NoError(t, err)
	assert.Equal(t, "-MAIL_HOST=old.example.com\n+MAIL_HOST=smtp.example.com\n", diff)
	assert.Equal(t, "A=1\nMAIL_HOST=old.example.com\nB=2\n", readFile(t, s))
}

func TestPreview_ShowsAppendedLine(t *testing.T) {
	s := newTestStore(t, "A=1")

	diff, err := s.Preview("NEW_KEY", "v")

	require.NoError(t, err)
	assert.Equal(t, "+NEW_KEY=v\n", diff)
}

func TestPreview_NoChange(t *testing.T) {
	s := newTestStore(t, "A=1\n")

	diff, err := s.Preview("A", "1")

	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestWatch_ReportsExternalWrites(t *testing.T) {
	s := newTestStore(t, "A=1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func(op string) {
			select {
			case events <- op:
			default:
			}
		})
	}()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(s.Path(), []byte("A=2"), 0o640)
		select {
		case <-events:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
