package service

import (
	"context"
	"log"
	"time"
)

/* =======================================================
   Dispatcher — antrian fire-and-forget pemicu pipeline.
   Satu worker goroutine memproses job berurutan; submit
   presensi tidak pernah menunggu pipeline selesai.
   ======================================================= */

type pipelineJob struct {
	Semester   int
	Department string
	Section    string
	Subject    string
	EnqueuedAt time.Time
}

type Dispatcher struct {
	orchestrator *Orchestrator
	jobs         chan pipelineJob
}

func NewDispatcher(orchestrator *Orchestrator, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		orchestrator: orchestrator,
		jobs:         make(chan pipelineJob, queueSize),
	}
}

// Start menjalankan worker sampai ctx dibatalkan.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		log.Println("📊 Pipeline analitik aktif")
		for {
			select {
			case <-ctx.Done():
				log.Println("📊 Pipeline analitik berhenti")
				return
			case job := <-d.jobs:
				d.process(ctx, job)
			}
		}
	}()
}

// Enqueue tidak pernah blocking. Antrian penuh = job tetap jalan di
// goroutine-nya sendiri (tetap fire-and-forget, hanya tidak lewat antrian).
func (d *Dispatcher) Enqueue(semester int, department, section, subject string) {
	job := pipelineJob{
		Semester:   semester,
		Department: department,
		Section:    section,
		Subject:    subject,
		EnqueuedAt: time.Now(),
	}
	select {
	case d.jobs <- job:
	default:
		log.Printf("⚠️ antrian pipeline penuh, job %s/%d/%s-%s jalan di luar antrian", subject, semester, department, section)
		go d.process(context.Background(), job)
	}
}

// RunNow menjalankan pipeline inline (untuk re-run manual sync).
// Tidak ada batas waktu level job: tiap tahap sudah punya timeout sendiri
// di StageClient, dan run per siswa dibiarkan selesai atau gagal sendiri.
func (d *Dispatcher) RunNow(ctx context.Context, semester int, department, section, subject string) (*PipelineResult, error) {
	return d.orchestrator.Run(ctx, semester, department, section, subject)
}

func (d *Dispatcher) process(ctx context.Context, job pipelineJob) {
	started := time.Now()
	result, err := d.orchestrator.Run(ctx, job.Semester, job.Department, job.Section, job.Subject)
	if err != nil {
		log.Printf("❌ pipeline %s/%d gagal: %v", job.Subject, job.Semester, err)
		return
	}
	log.Printf("📊 pipeline %s/%d selesai dalam %s: %d ok, %d gagal, %d dilewati",
		job.Subject, job.Semester, time.Since(started).Round(time.Millisecond),
		result.Succeeded, result.Failed, result.Skipped)
}
