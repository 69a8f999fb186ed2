package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEnqueueNeverBlocks(t *testing.T) {
	repo := newFakePipelineRepo()
	orch := NewOrchestrator(repo, healthyStages())
	d := NewDispatcher(orch, 1) // worker sengaja tidak dijalankan

	done := make(chan struct{})
	go func() {
		// antrian kapasitas 1: enqueue kedua dan ketiga tidak boleh menunggu
		d.Enqueue(5, "CS", "A", "DBMS")
		d.Enqueue(5, "CS", "A", "OS")
		d.Enqueue(5, "CS", "A", "Math")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocking saat antrian penuh")
	}
	assert.Len(t, d.jobs, 1)

	// job yang meluap tetap diproses, lewat goroutine sendiri
	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.listCalls == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDispatcherProcessesJobs(t *testing.T) {
	repo := newFakePipelineRepo()
	st := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	repo.students = []PipelineStudent{st}
	repo.series[st.ID] = []string{"present"}

	orch := NewOrchestrator(repo, healthyStages())
	d := NewDispatcher(orch, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(5, "CS", "A", "DBMS")

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.upserts == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunNow(t *testing.T) {
	repo := newFakePipelineRepo()
	st := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	repo.students = []PipelineStudent{st}
	repo.series[st.ID] = []string{"present", "absent"}

	d := NewDispatcher(NewOrchestrator(repo, healthyStages()), 8)
	res, err := d.RunNow(context.Background(), 5, "CS", "A", "DBMS")
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
}
