package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"presensiku_backend/internals/features/attendance/analytics/model"
)

/* =======================================================
   Fake repo + fake stages
   ======================================================= */

type fakePipelineRepo struct {
	mu        sync.Mutex
	students  []PipelineStudent
	series    map[uuid.UUID][]string // status kehadiran per siswa
	attSeries map[uuid.UUID][]string
	listErr   error
	seriesErr map[uuid.UUID]error

	standings map[string]model.StudentSubjectStandingModel // key: student|subject|semester
	upserts   int
	listCalls int
}

func newFakePipelineRepo() *fakePipelineRepo {
	return &fakePipelineRepo{
		series:    map[uuid.UUID][]string{},
		attSeries: map[uuid.UUID][]string{},
		seriesErr: map[uuid.UUID]error{},
		standings: map[string]model.StudentSubjectStandingModel{},
	}
}

func (f *fakePipelineRepo) ListStudents(semester int, department, section, subject string) ([]PipelineStudent, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.students, nil
}

func (f *fakePipelineRepo) StudentSeries(studentID uuid.UUID, semester int, subject string) ([]string, []string, error) {
	if err := f.seriesErr[studentID]; err != nil {
		return nil, nil, err
	}
	return f.series[studentID], f.attSeries[studentID], nil
}

func (f *fakePipelineRepo) UpsertStanding(m *model.StudentSubjectStandingModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	key := fmt.Sprintf("%s|%s|%d", m.StandingStudentID, m.StandingSubject, m.StandingSemester)
	f.standings[key] = *m
	return nil
}

// fakeStages merekam input tiap tahap supaya urutan DAG bisa diperiksa.
type fakeStages struct {
	mu sync.Mutex

	trendOut         string
	consistencyOut   string
	attentivenessOut string
	riskOut          string

	failStage string // nama tahap yang dibuat gagal

	attentivenessGotConsistency []string
	riskGotInputs               [][3]string
}

func (f *fakeStages) Trend(ctx context.Context, series []string) (string, error) {
	if f.failStage == "trend" {
		return "", errors.New("trend mati")
	}
	return f.trendOut, nil
}

func (f *fakeStages) Consistency(ctx context.Context, series []string) (string, error) {
	if f.failStage == "consistency" {
		return "", errors.New("consistency mati")
	}
	return f.consistencyOut, nil
}

func (f *fakeStages) Attentiveness(ctx context.Context, attSeries []string, consistency string) (string, error) {
	if f.failStage == "attentiveness" {
		return "", errors.New("attentiveness mati")
	}
	f.mu.Lock()
	f.attentivenessGotConsistency = append(f.attentivenessGotConsistency, consistency)
	f.mu.Unlock()
	return f.attentivenessOut, nil
}

func (f *fakeStages) Risk(ctx context.Context, trend, consistency, attentiveness string, rate float64) (string, error) {
	if f.failStage == "risk" {
		return "", errors.New("risk mati")
	}
	f.mu.Lock()
	f.riskGotInputs = append(f.riskGotInputs, [3]string{trend, consistency, attentiveness})
	f.mu.Unlock()
	return f.riskOut, nil
}

func healthyStages() *fakeStages {
	return &fakeStages{
		trendOut:         model.TrendImproving,
		consistencyOut:   model.ConsistencyRegular,
		attentivenessOut: model.AttentivenessActive,
		riskOut:          model.RiskLow,
	}
}

/* =======================================================
   Orchestrator
   ======================================================= */

func TestRunComputesStandings(t *testing.T) {
	repo := newFakePipelineRepo()
	a := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	b := PipelineStudent{ID: uuid.New(), USN: "1A02"}
	repo.students = []PipelineStudent{a, b}
	repo.series[a.ID] = []string{"present", "present", "absent"}
	repo.attSeries[a.ID] = []string{"attentive", "attentive"}
	repo.series[b.ID] = []string{"absent", "absent"}

	stages := healthyStages()
	orch := NewOrchestrator(repo, stages)

	res, err := orch.Run(context.Background(), 5, "CS", "A", "DBMS")
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 0, res.Failed)
	assert.Len(t, repo.standings, 2)

	for _, st := range repo.standings {
		assert.Equal(t, model.TrendImproving, st.StandingTrend)
		assert.Equal(t, model.RiskLow, st.StandingRisk)
		assert.Equal(t, "DBMS", st.StandingSubject)
		assert.False(t, st.StandingComputedAt.IsZero())
	}
}

func TestRunDagWiring(t *testing.T) {
	repo := newFakePipelineRepo()
	st := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	repo.students = []PipelineStudent{st}
	repo.series[st.ID] = []string{"present"}

	stages := healthyStages()
	stages.consistencyOut = model.ConsistencyHigh
	stages.trendOut = model.TrendDeclining
	stages.attentivenessOut = model.AttentivenessPassive

	orch := NewOrchestrator(repo, stages)
	_, err := orch.Run(context.Background(), 5, "CS", "A", "DBMS")
	assert.NoError(t, err)

	// attentiveness menerima output consistency
	if assert.Len(t, stages.attentivenessGotConsistency, 1) {
		assert.Equal(t, model.ConsistencyHigh, stages.attentivenessGotConsistency[0])
	}
	// risk menerima ketiga output upstream
	if assert.Len(t, stages.riskGotInputs, 1) {
		assert.Equal(t, [3]string{model.TrendDeclining, model.ConsistencyHigh, model.AttentivenessPassive}, stages.riskGotInputs[0])
	}
}

func TestRunSkipsEmptySeries(t *testing.T) {
	repo := newFakePipelineRepo()
	active := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	fresh := PipelineStudent{ID: uuid.New(), USN: "1A02"} // belum pernah hadir
	repo.students = []PipelineStudent{active, fresh}
	repo.series[active.ID] = []string{"present"}

	orch := NewOrchestrator(repo, healthyStages())
	res, err := orch.Run(context.Background(), 5, "CS", "A", "DBMS")
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, repo.standings, 1)
}

func TestRunIsolatesStudentFailures(t *testing.T) {
	repo := newFakePipelineRepo()
	ok := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	broken := PipelineStudent{ID: uuid.New(), USN: "1A02"}
	repo.students = []PipelineStudent{ok, broken}
	repo.series[ok.ID] = []string{"present"}
	repo.series[broken.ID] = []string{"present"}
	repo.seriesErr[broken.ID] = errors.New("baris korup")

	orch := NewOrchestrator(repo, healthyStages())
	res, err := orch.Run(context.Background(), 5, "CS", "A", "DBMS")
	assert.NoError(t, err) // kegagalan per siswa bukan error infra
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	if assert.Len(t, res.Errors, 1) {
		assert.Contains(t, res.Errors[0], "1A02")
	}
}

func TestRunStageFailureFailsOnlyThatStudent(t *testing.T) {
	repo := newFakePipelineRepo()
	st := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	repo.students = []PipelineStudent{st}
	repo.series[st.ID] = []string{"present"}

	for _, stage := range []string{"trend", "consistency", "attentiveness", "risk"} {
		t.Run(stage, func(t *testing.T) {
			repo.standings = map[string]model.StudentSubjectStandingModel{}
			stages := healthyStages()
			stages.failStage = stage

			orch := NewOrchestrator(repo, stages)
			res, err := orch.Run(context.Background(), 5, "CS", "A", "DBMS")
			assert.NoError(t, err)
			assert.Equal(t, 1, res.Failed)
			// tahap gagal = tidak ada standing parsial tersimpan
			assert.Empty(t, repo.standings)
		})
	}
}

func TestRunEnumerationFailureIsFatal(t *testing.T) {
	repo := newFakePipelineRepo()
	repo.listErr = errors.New("db mati")

	orch := NewOrchestrator(repo, healthyStages())
	_, err := orch.Run(context.Background(), 5, "CS", "A", "DBMS")
	assert.Error(t, err)
}

func TestRunIdempotentPerStudent(t *testing.T) {
	repo := newFakePipelineRepo()
	st := PipelineStudent{ID: uuid.New(), USN: "1A01"}
	repo.students = []PipelineStudent{st}
	repo.series[st.ID] = []string{"present", "absent"}

	orch := NewOrchestrator(repo, healthyStages())
	_, err := orch.Run(context.Background(), 5, "CS", "A", "DBMS")
	assert.NoError(t, err)
	_, err = orch.Run(context.Background(), 5, "CS", "A", "DBMS")
	assert.NoError(t, err)

	// dua kali run = dua upsert, tapi tetap satu baris standing
	assert.Equal(t, 2, repo.upserts)
	assert.Len(t, repo.standings, 1)
}

func TestAttendanceRate(t *testing.T) {
	assert.Equal(t, 0.0, attendanceRate(nil))
	assert.Equal(t, 1.0, attendanceRate([]string{"present", "late"}))
	assert.Equal(t, 0.5, attendanceRate([]string{"present", "absent", "late", "excused"}))
}
