package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForBatch(t *testing.T, d *debouncer) []Event {
	t.Helper()

	select {
	case batch := <-d.output:
		return batch
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for debounced batch")
		return nil
	}
}

func TestDebouncer_SingleEventPassesThrough(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	d.add(Event{Name: "1.go.tokens.jsonl", Op: OpCreate})

	batch := waitForBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, "1.go.tokens.jsonl", batch[0].Name)
	assert.Equal(t, OpCreate, batch[0].Op)
}

func TestDebouncer_RapidModifiesCoalesce(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.stop()

	for i := 0; i < 5; i++ {
		d.add(Event{Name: "2.py.tokens.jsonl", Op: OpModify})
	}

	batch := waitForBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, OpModify, batch[0].Op)
}

func TestDebouncer_CreateThenModifyStaysCreate(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	d.add(Event{Name: "3.go.tokens.jsonl", Op: OpCreate})
	d.add(Event{Name: "3.go.tokens.jsonl", Op: OpModify})

	batch := waitForBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, OpCreate, batch[0].Op)
}

func TestDebouncer_CreateThenDeleteCancelsOut(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	d.add(Event{Name: "4.go.tokens.jsonl", Op: OpCreate})
	d.add(Event{Name: "4.go.tokens.jsonl", Op: OpDelete})

	select {
	case batch := <-d.output:
		t.Fatalf("expected no batch, got %v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_DeleteThenCreateBecomesModify(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	d.add(Event{Name: "5.go.tokens.jsonl", Op: OpDelete})
	d.add(Event{Name: "5.go.tokens.jsonl", Op: OpCreate})

	batch := waitForBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, OpModify, batch[0].Op)
}

func TestDebouncer_ModifyThenDeleteBecomesDelete(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	d.add(Event{Name: "6.go.tokens.jsonl", Op: OpModify})
	d.add(Event{Name: "6.go.tokens.jsonl", Op: OpDelete})

	batch := waitForBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, OpDelete, batch[0].Op)
}

func TestDebouncer_DifferentFilesStayDistinct(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	d.add(Event{Name: "7.go.tokens.jsonl", Op: OpCreate})
	d.add(Event{Name: "8.py.tokens.jsonl", Op: OpModify})

	batch := waitForBatch(t, d)
	assert.Len(t, batch, 2)
}

func TestDebouncer_StopIsIdempotent(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	d.stop()
	d.stop()

	// Adding after stop must not panic or emit.
	d.add(Event{Name: "9.go.tokens.jsonl", Op: OpCreate})
}
