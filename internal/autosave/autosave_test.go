package autosave

import (
	"errors"
	"sync"
	"testing"
	"time"

	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	mu     sync.Mutex
	saves  []state.State
	err    error
	called chan struct{}
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{called: make(chan struct{}, 16)}
}

func (r *recordingSaver) Save(s state.State) error {
	r.mu.Lock()
	r.saves = append(r.saves, s)
	err := r.err
	r.mu.Unlock()
	r.called <- struct{}{}
	return err
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingSaver) last() state.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[len(r.saves)-1]
}

func withPersons(names ...string) state.State {
	s := state.Default()
	s.Persons = names
	return s
}

func TestAutosaver_CoalescesBurst(t *testing.T) {
	saver := newRecordingSaver()
	a := New(saver, 30*time.Millisecond, logging.Nop())

	for i := 0; i < 5; i++ {
		a.Trigger(withPersons("p", string(rune('a'+i))))
	}

	select {
	case <-saver.called:
	case <-time.After(2 * time.Second):
		t.Fatal("autosave never fired")
	}
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, saver.count())
	assert.Equal(t, []string{"p", "e"}, saver.last().Persons)
	assert.False(t, a.Pending())
}

func TestAutosaver_FlushWritesImmediately(t *testing.T) {
	saver := newRecordingSaver()
	a := New(saver, time.Hour, logging.Nop())

	a.Trigger(withPersons("JACK"))
	assert.True(t, a.Pending())

	require.NoError(t, a.Flush())
	assert.Equal(t, 1, saver.count())
	assert.False(t, a.Pending())

	require.NoError(t, a.Flush())
	assert.Equal(t, 1, saver.count())
}

func TestAutosaver_SnapshotIsCopied(t *testing.T) {
	saver := newRecordingSaver()
	a := New(saver, time.Hour, nil)

	s := withPersons("JACK")
	a.Trigger(s)
	s.Persons[0] = "changed"

	require.NoError(t, a.Flush())
	assert.Equal(t, []string{"JACK"}, saver.last().Persons)
}

func TestAutosaver_StopCancels(t *testing.T) {
	saver := newRecordingSaver()
	a := New(saver, 20*time.Millisecond, logging.Nop())

	a.Trigger(withPersons("JACK"))
	a.Stop()
	a.Trigger(withPersons("JD"))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, saver.count())
	assert.NoError(t, a.Flush())
}

func TestAutosaver_FailureIsReported(t *testing.T) {
	saver := newRecordingSaver()
	saver.err = errors.New("disk full")
	log := logging.NewMockLogger()

	var reported error
	a := New(saver, time.Hour, log).OnError(func(err error) { reported = err })

	a.Trigger(withPersons("JACK"))
	err := a.Flush()

	assert.EqualError(t, err, "disk full")
	assert.Equal(t, err, reported)
	assert.True(t, log.HasEntry("ERROR", "autosave failed"))
}

func TestNew_DefaultDelay(t *testing.T) {
	a := New(newRecordingSaver(), 0, nil)
	assert.Equal(t, DefaultDelay, a.Delay())
}

type blockingSaver struct {
	recordingSaver
	started chan struct{}
	release chan struct{}
}

func newBlockingSaver() *blockingSaver {
	return &blockingSaver{
		recordingSaver: recordingSaver{called: make(chan struct{}, 16)},
		started:        make(chan struct{}, 16),
		release:        make(chan struct{}),
	}
}

func (b *blockingSaver) Save(s state.State) error {
	b.started <- struct{}{}
	<-b.release
	return b.recordingSaver.Save(s)
}

func waitStarted(t *testing.T, b *blockingSaver) {
	t.Helper()
	select {
	case <-b.started:
	case <-time.After(2 * time.Second):
		t.Fatal("save never started")
	}
}

func TestAutosaver_WaitsForSaveInProgress(t *testing.T) {
	tests := []struct {
		name  string
		close func(a *Autosaver) error
	}{
		{name: "flush", close: func(a *Autosaver) error { return a.Flush() }},
		{name: "stop", close: func(a *Autosaver) error { a.Stop(); return nil }},
		{name: "flush then stop", close: func(a *Autosaver) error {
			err := a.Flush()
			a.Stop()
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := newBlockingSaver()
			a := New(saver, 10*time.Millisecond, logging.Nop())

			a.Trigger(withPersons("JACK"))
			waitStarted(t, saver)
			assert.False(t, a.Pending())

			returned := make(chan error, 1)
			go func() { returned <- tt.close(a) }()

			select {
			case <-returned:
				t.Fatal("returned while a save was still running")
			case <-time.After(50 * time.Millisecond):
			}

			close(saver.release)
			select {
			case err := <-returned:
				require.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("never returned after the save finished")
			}
			assert.Equal(t, 1, saver.count())
		})
	}
}

func TestAutosaver_FlushAfterInFlightSaveKeepsNewest(t *testing.T) {
	saver := newBlockingSaver()
	a := New(saver, 10*time.Millisecond, logging.Nop())

	a.Trigger(withPersons("JACK"))
	waitStarted(t, saver)
	a.Trigger(withPersons("JACK", "JD"))

	returned := make(chan error, 1)
	go func() { returned <- a.Flush() }()
	close(saver.release)

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("flush never returned")
	}
	a.Stop()

	assert.Equal(t, 2, saver.count())
	assert.Equal(t, []string{"JACK", "JD"}, saver.last().Persons)
	assert.False(t, a.Pending())
}
