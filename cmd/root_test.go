package cmd

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Tiliavir/daily-work-report/internal/storage"
)

type closeCountingStore struct {
	storage.Store
	closed int
}

func (s *closeCountingStore) Close() error {
	s.closed++
	return nil
}

func stubExit(t *testing.T) *int {
	t.Helper()
	code := -1
	prevExit, prevStore, prevLog := osExit, store, log
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit, store, log = prevExit, prevStore, prevLog })
	return &code
}

func TestFailClosesStore(t *testing.T) {
	code := stubExit(t)
	s := &closeCountingStore{Store: storage.NewFileStore(t.TempDir())}
	store = s
	log = zap.NewNop()

	fail(exitStorage, errors.New("disk full"))

	if *code != exitStorage {
		t.Errorf("exit code = %d, want %d", *code, exitStorage)
	}
	if s.closed != 1 {
		t.Errorf("store closed %d times, want 1", s.closed)
	}
	if store != nil {
		t.Error("store still set after fail")
	}

	// A second exit path must not close the store again.
	exit(exitUsage)
	if s.closed != 1 {
		t.Errorf("store closed %d times after second exit, want 1", s.closed)
	}
}

func TestFailBeforeSetup(t *testing.T) {
	code := stubExit(t)
	store, log = nil, nil

	fail(exitUsage, errors.New("bad config"))

	if *code != exitUsage {
		t.Errorf("exit code = %d, want %d", *code, exitUsage)
	}
}
