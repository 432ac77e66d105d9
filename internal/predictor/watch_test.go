package predictor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		ev   fsnotify.Event
		only string
		want bool
	}{
		{fsnotify.Event{Name: filepath.Join(dir, "m.gob"), Op: fsnotify.Create}, "", true},
		{fsnotify.Event{Name: filepath.Join(dir, "m.gob"), Op: fsnotify.Write}, "", true},
		{fsnotify.Event{Name: filepath.Join(dir, "m.gob"), Op: fsnotify.Remove}, "", false},
		{fsnotify.Event{Name: filepath.Join(dir, ".artifact-123"), Op: fsnotify.Create}, "", false},
		{fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, "", false},
		{fsnotify.Event{Name: filepath.Join(dir, "other.gob"), Op: fsnotify.Create}, "m.gob", false},
		{fsnotify.Event{Name: filepath.Join(dir, "m.gob"), Op: fsnotify.Create}, "m.gob", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, relevant(c.ev, c.only), "%s %s", c.ev, c.only)
	}
}

func TestWatchReloadsOnNewArtifact(t *testing.T) {
	dir := t.TempDir()
	_, _ = saveTiny(t, dir, "a.gob", 0)
	pub := NewMemoryPublisher()
	p := newTest(dir, pub)
	require.NoError(t, p.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.watch(ctx, 20*time.Millisecond) }()
	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	b, _ := saveTiny(t, dir, "b.gob", 10)
	require.Eventually(t, func() bool {
		return p.Status().ModelID == b.Meta.ID
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, pub.Names(), EventModelReloaded)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	p := newTest(filepath.Join(t.TempDir(), "missing", "model.gob"), nil)
	err := p.Watch(context.Background())
	require.Error(t, err)
	assert.NotNil(t, errors.GetReportableStackTrace(err))
}
