package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"presensiku_backend/internals/features/attendance/analytics/model"
)

/* =======================================================
   Orchestrator pipeline analitik. Untuk tiap siswa pada
   kombinasi kelas:

     trend ──────────┐
                     ├─→ risk
     consistency ─┬──┘
                  └→ attentiveness ─┘

   trend dan consistency berjalan paralel; attentiveness
   menunggu consistency; risk menunggu ketiganya. Kegagalan
   satu siswa tidak menghentikan siswa lain.
   ======================================================= */

const defaultMaxParallelStudents = 4

type PipelineStudent struct {
	ID  uuid.UUID
	USN string
}

type PipelineRepository interface {
	// ListStudents: siswa aktif pada kombinasi. Gagal di sini = infra-fatal.
	ListStudents(semester int, department, section, subject string) ([]PipelineStudent, error)
	// StudentSeries: seri status kehadiran + seri attentiveness, urut tanggal.
	StudentSeries(studentID uuid.UUID, semester int, subject string) (attendance []string, attentiveness []string, err error)
	// UpsertStanding: satu baris per (siswa, subject, semester).
	UpsertStanding(m *model.StudentSubjectStandingModel) error
}

type PipelineResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

type Orchestrator struct {
	repo        PipelineRepository
	stages      StageRunner
	maxParallel int
}

func NewOrchestrator(repo PipelineRepository, stages StageRunner) *Orchestrator {
	return &Orchestrator{repo: repo, stages: stages, maxParallel: defaultMaxParallelStudents}
}

// Run memproses seluruh siswa pada kombinasi kelas. Error hanya untuk
// kegagalan infrastruktur (enumerasi siswa); kegagalan per siswa masuk
// ke PipelineResult.
func (o *Orchestrator) Run(ctx context.Context, semester int, department, section, subject string) (*PipelineResult, error) {
	students, err := o.repo.ListStudents(semester, department, section, subject)
	if err != nil {
		return nil, fmt.Errorf("enumerasi siswa gagal: %w", err)
	}

	result := &PipelineResult{Total: len(students)}
	var mu sync.Mutex

	g := &errgroup.Group{}
	g.SetLimit(o.maxParallel)
	for _, st := range students {
		st := st
		g.Go(func() error {
			outcome, err := o.runStudent(ctx, st, semester, subject)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				// isolasi per siswa: catat, jangan hentikan yang lain
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", st.USN, err))
				log.Printf("⚠️ pipeline siswa %s gagal: %v", st.USN, err)
			case outcome == outcomeSkipped:
				result.Skipped++
			default:
				result.Succeeded++
			}
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

type studentOutcome int

const (
	outcomeComputed studentOutcome = iota
	outcomeSkipped
)

func (o *Orchestrator) runStudent(ctx context.Context, st PipelineStudent, semester int, subject string) (studentOutcome, error) {
	attendance, attentivenessSeries, err := o.repo.StudentSeries(st.ID, semester, subject)
	if err != nil {
		return outcomeComputed, err
	}
	if len(attendance) == 0 {
		// belum ada sesi tercatat: tidak ada yang bisa dihitung
		return outcomeSkipped, nil
	}

	// Level 1: trend ∥ consistency
	var trend, consistency string
	lvl1, lvl1Ctx := errgroup.WithContext(ctx)
	lvl1.Go(func() error {
		var err error
		trend, err = o.stages.Trend(lvl1Ctx, attendance)
		return err
	})
	lvl1.Go(func() error {
		var err error
		consistency, err = o.stages.Consistency(lvl1Ctx, attendance)
		return err
	})
	if err := lvl1.Wait(); err != nil {
		return outcomeComputed, err
	}

	// Level 2: attentiveness butuh consistency
	attentiveness, err := o.stages.Attentiveness(ctx, attentivenessSeries, consistency)
	if err != nil {
		return outcomeComputed, err
	}

	// Level 3: risk butuh ketiganya
	rate := attendanceRate(attendance)
	risk, err := o.stages.Risk(ctx, trend, consistency, attentiveness, rate)
	if err != nil {
		return outcomeComputed, err
	}

	metrics, _ := sonic.Marshal(map[string]interface{}{
		"attendance_rate": rate,
		"sessions":        len(attendance),
	})

	standing := model.StudentSubjectStandingModel{
		StandingStudentID:     st.ID,
		StandingSemester:      semester,
		StandingSubject:       subject,
		StandingTrend:         trend,
		StandingConsistency:   consistency,
		StandingAttentiveness: attentiveness,
		StandingRisk:          risk,
		StandingMetrics:       metrics,
		StandingComputedAt:    time.Now(),
	}
	if err := o.repo.UpsertStanding(&standing); err != nil {
		return outcomeComputed, err
	}
	return outcomeComputed, nil
}

// present dan late dihitung hadir.
func attendanceRate(series []string) float64 {
	if len(series) == 0 {
		return 0
	}
	present := 0
	for _, s := range series {
		if s == "present" || s == "late" {
			present++
		}
	}
	return float64(present) / float64(len(series))
}
