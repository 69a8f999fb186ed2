package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"presensiku_backend/internals/features/attendance/sessions/model"
	helper "presensiku_backend/internals/helpers"
)

/* =======================================================
   Fake repo + fake pipeline
   ======================================================= */

type fakeSubmissionRepo struct {
	roster   []RosterStudent
	sessions []model.AttendanceSessionModel
	records  []model.AttendanceRecordModel

	failInsertUSNs map[string]bool // simulasi record yang gagal insert
}

func (f *fakeSubmissionRepo) ListRoster(semester int, department, section, subject string) ([]RosterStudent, error) {
	return f.roster, nil
}

func (f *fakeSubmissionRepo) FindNearbySession(teacherID uuid.UUID, semester int, department, section, subject string, date time.Time, startMinutes, windowMinutes int) (*model.AttendanceSessionModel, error) {
	for i := range f.sessions {
		s := &f.sessions[i]
		if s.AttendanceSessionTeacherID != teacherID || !s.AttendanceSessionDate.Equal(helper.DateOnly(date)) {
			continue
		}
		min, err := helper.ParseClock(s.AttendanceSessionStartTime)
		if err != nil {
			continue
		}
		dist := min - startMinutes
		if dist < 0 {
			dist = -dist
		}
		if dist <= windowMinutes {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionRepo) CreateSessionWithRecords(session *model.AttendanceSessionModel, records []model.AttendanceRecordModel) (int, []string, error) {
	session.AttendanceSessionID = uuid.New()

	inserted := 0
	present, absent := 0, 0
	var failed []string
	var kept []model.AttendanceRecordModel
	for i := range records {
		records[i].AttendanceRecordSessionID = session.AttendanceSessionID
		if f.failInsertUSNs[records[i].AttendanceRecordUSN] {
			failed = append(failed, records[i].AttendanceRecordUSN)
			continue
		}
		inserted++
		if records[i].AttendanceRecordStatus == model.StatusPresent {
			present++
		} else {
			absent++
		}
		kept = append(kept, records[i])
	}
	if inserted == 0 {
		return 0, nil, ErrNoRecordsInserted
	}
	if len(failed) > 0 {
		session.AttendanceSessionPresentCount = present
		session.AttendanceSessionAbsentCount = absent
	}
	f.sessions = append(f.sessions, *session)
	f.records = append(f.records, kept...)
	return inserted, failed, nil
}

type fakePipeline struct {
	calls int
}

func (f *fakePipeline) Enqueue(semester int, department, section, subject string) {
	f.calls++
}

func studentRoster(usns ...string) []RosterStudent {
	out := make([]RosterStudent, 0, len(usns))
	for _, usn := range usns {
		out = append(out, RosterStudent{StudentID: uuid.New(), USN: usn, Name: "Siswa " + usn})
	}
	return out
}

func baseInput(teacher uuid.UUID) SubmissionInput {
	return SubmissionInput{
		TeacherID:     teacher,
		Semester:      5,
		Department:    "CS",
		Section:       "A",
		Subject:       "DBMS",
		Date:          time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:00",
		PeriodOrdinal: 1,
	}
}

/* =======================================================
   Submit
   ======================================================= */

func TestSubmitMarksRecognizedPresentRestAbsent(t *testing.T) {
	repo := &fakeSubmissionRepo{roster: studentRoster("1A01", "1A02", "1A03", "1A04")}
	pipe := &fakePipeline{}
	svc := NewSubmissionService(repo, pipe, 30, nil)

	in := baseInput(uuid.New())
	in.Recognized = []RecognizedStudent{
		{USN: "1A01", Confidence: 0.93, Attentiveness: "attentive", Emotion: "neutral"},
		{USN: "1A03", Confidence: 0.88, Attentiveness: "not_attentive", Emotion: "sad"},
	}

	res, err := svc.Submit(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.PresentCount)
	assert.Equal(t, 2, res.AbsentCount)
	assert.Equal(t, 4, res.TotalStudents)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.FailureCount)

	// semua siswa roster dapat record, termasuk yang absen
	assert.Len(t, repo.records, 4)
	statusByUSN := map[string]string{}
	for _, r := range repo.records {
		statusByUSN[r.AttendanceRecordUSN] = r.AttendanceRecordStatus
		assert.Equal(t, model.MarkedBySystem, r.AttendanceRecordMarkedBy)
	}
	assert.Equal(t, model.StatusPresent, statusByUSN["1A01"])
	assert.Equal(t, model.StatusAbsent, statusByUSN["1A02"])
	assert.Equal(t, model.StatusPresent, statusByUSN["1A03"])
	assert.Equal(t, model.StatusAbsent, statusByUSN["1A04"])
}

func TestSubmitSkipsUnresolvableStudents(t *testing.T) {
	repo := &fakeSubmissionRepo{roster: studentRoster("1A01", "1A02")}
	svc := NewSubmissionService(repo, &fakePipeline{}, 30, nil)

	in := baseInput(uuid.New())
	in.Recognized = []RecognizedStudent{
		{USN: "1A01", Confidence: 0.9},
		{USN: "9Z99", Confidence: 0.8}, // tidak ada di roster
	}

	res, err := svc.Submit(in)
	assert.NoError(t, err) // entri bermasalah tidak menggagalkan yang lain
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
	assert.Equal(t, []string{"9Z99"}, res.FailedUSNs)
	assert.Equal(t, 1, res.PresentCount)
	assert.Equal(t, 1, res.AbsentCount)
}

func TestSubmitManualPresent(t *testing.T) {
	repo := &fakeSubmissionRepo{roster: studentRoster("1A01", "1A02", "1A03")}
	svc := NewSubmissionService(repo, &fakePipeline{}, 30, nil)

	in := baseInput(uuid.New())
	in.Recognized = []RecognizedStudent{{USN: "1A01", Confidence: 0.9}}
	in.ManualPresent = []string{"1A02", "1A01"} // 1A01 sudah terdeteksi sistem

	res, err := svc.Submit(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.PresentCount)
	assert.Equal(t, 2, res.SuccessCount) // tidak dihitung ganda

	for _, r := range repo.records {
		switch r.AttendanceRecordUSN {
		case "1A01":
			assert.Equal(t, model.MarkedBySystem, r.AttendanceRecordMarkedBy)
		case "1A02":
			assert.Equal(t, model.MarkedByManual, r.AttendanceRecordMarkedBy)
		}
	}
}

func TestSubmitDuplicateSlotRejected(t *testing.T) {
	teacher := uuid.New()
	repo := &fakeSubmissionRepo{roster: studentRoster("1A01")}
	svc := NewSubmissionService(repo, &fakePipeline{}, 30, nil)

	in := baseInput(teacher)
	in.Recognized = []RecognizedStudent{{USN: "1A01", Confidence: 0.9}}
	_, err := svc.Submit(in)
	assert.NoError(t, err)

	// slot sama persis
	_, err = svc.Submit(in)
	assert.ErrorIs(t, err, ErrDuplicateSlot)

	// masih dalam ±30 menit
	in.StartTime = "09:25"
	_, err = svc.Submit(in)
	assert.ErrorIs(t, err, ErrDuplicateSlot)

	// di luar jendela: boleh
	in.StartTime = "10:00"
	_, err = svc.Submit(in)
	assert.NoError(t, err)
	assert.Len(t, repo.sessions, 2)
}

func TestSubmitEmptyRosterRejected(t *testing.T) {
	svc := NewSubmissionService(&fakeSubmissionRepo{}, &fakePipeline{}, 30, nil)

	in := baseInput(uuid.New())
	in.Recognized = []RecognizedStudent{{USN: "1A01"}}
	_, err := svc.Submit(in)
	assert.Error(t, err)
}

func TestSubmitTriggersPipelineAfterCommit(t *testing.T) {
	repo := &fakeSubmissionRepo{roster: studentRoster("1A01")}
	pipe := &fakePipeline{}
	svc := NewSubmissionService(repo, pipe, 30, nil)

	in := baseInput(uuid.New())
	in.Recognized = []RecognizedStudent{{USN: "1A01", Confidence: 0.9}}
	_, err := svc.Submit(in)
	assert.NoError(t, err)
	assert.Equal(t, 1, pipe.calls)

	// submit gagal tidak memicu pipeline
	_, err = svc.Submit(in)
	assert.Error(t, err)
	assert.Equal(t, 1, pipe.calls)
}

func TestSubmitValidation(t *testing.T) {
	svc := NewSubmissionService(&fakeSubmissionRepo{}, &fakePipeline{}, 30, nil)

	in := baseInput(uuid.Nil)
	_, err := svc.Submit(in)
	assert.Error(t, err)

	in = baseInput(uuid.New())
	in.Subject = ""
	_, err = svc.Submit(in)
	assert.Error(t, err)

	in = baseInput(uuid.New())
	in.StartTime = "25:99"
	_, err = svc.Submit(in)
	assert.Error(t, err)
}

func TestSubmitToleratesRecordFailures(t *testing.T) {
	repo := &fakeSubmissionRepo{
		roster:         studentRoster("1A01", "1A02", "1A03"),
		failInsertUSNs: map[string]bool{"1A02": true},
	}
	svc := NewSubmissionService(repo, &fakePipeline{}, 30, nil)

	in := baseInput(uuid.New())
	in.Recognized = []RecognizedStudent{{USN: "1A01", Confidence: 0.9}}

	res, err := svc.Submit(in)
	assert.NoError(t, err) // satu baris gagal tidak menggagalkan submit
	assert.Equal(t, 1, res.FailureCount)
	assert.Equal(t, []string{"1A02"}, res.FailedUSNs)
	assert.Equal(t, 1, res.PresentCount)
	assert.Equal(t, 1, res.AbsentCount) // baris yang gagal tidak ikut dihitung
	assert.Len(t, repo.records, 2)
}

func TestSubmitZeroInsertedRejected(t *testing.T) {
	repo := &fakeSubmissionRepo{
		roster:         studentRoster("1A01"),
		failInsertUSNs: map[string]bool{"1A01": true},
	}
	pipe := &fakePipeline{}
	svc := NewSubmissionService(repo, pipe, 30, nil)

	_, err := svc.Submit(baseInput(uuid.New()))
	assert.ErrorIs(t, err, ErrNoRecordsInserted)
	assert.Equal(t, 0, pipe.calls)
}

func TestSubmitDerivesSlotBucket(t *testing.T) {
	repo := &fakeSubmissionRepo{roster: studentRoster("1A01")}
	svc := NewSubmissionService(repo, &fakePipeline{}, 30, nil)

	in := baseInput(uuid.New())
	in.StartTime = "09:25" // 565 menit / lebar slot 30 = bucket 18
	_, err := svc.Submit(in)
	assert.NoError(t, err)
	assert.Equal(t, 18, repo.sessions[0].AttendanceSessionSlot)
}

/* =======================================================
   Koreksi
   ======================================================= */

type fakeCorrectionRepo struct {
	rec     model.AttendanceRecordModel
	session model.AttendanceSessionModel
	updated string
}

func (f *fakeCorrectionRepo) FindRecordWithSession(recordID uuid.UUID) (*model.AttendanceRecordModel, *model.AttendanceSessionModel, error) {
	return &f.rec, &f.session, nil
}

func (f *fakeCorrectionRepo) UpdateRecordStatus(recordID uuid.UUID, status, reason, markedBy string, presentDelta int, sessionID uuid.UUID) error {
	f.updated = status
	f.rec.AttendanceRecordStatus = status
	f.rec.AttendanceRecordReasonType = reason
	f.rec.AttendanceRecordMarkedBy = markedBy
	f.session.AttendanceSessionPresentCount += presentDelta
	f.session.AttendanceSessionAbsentCount -= presentDelta
	return nil
}

func TestCorrectSameDayOnly(t *testing.T) {
	teacher := uuid.New()
	sessionDate := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	repo := &fakeCorrectionRepo{
		rec: model.AttendanceRecordModel{
			AttendanceRecordID:     uuid.New(),
			AttendanceRecordStatus: model.StatusAbsent,
		},
		session: model.AttendanceSessionModel{
			AttendanceSessionID:           uuid.New(),
			AttendanceSessionTeacherID:    teacher,
			AttendanceSessionDate:         sessionDate,
			AttendanceSessionPresentCount: 1,
			AttendanceSessionAbsentCount:  1,
		},
	}
	svc := NewCorrectionService(repo)

	// hari berbeda: ditolak
	err := svc.Correct(teacher, repo.rec.AttendanceRecordID, model.StatusPresent, "", sessionDate.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrCorrectionWindowClosed)

	// hari sama: boleh, counter ikut bergeser
	err = svc.Correct(teacher, repo.rec.AttendanceRecordID, model.StatusPresent, "", sessionDate.Add(14*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPresent, repo.rec.AttendanceRecordStatus)
	assert.Equal(t, model.MarkedByManual, repo.rec.AttendanceRecordMarkedBy)
	assert.Equal(t, 2, repo.session.AttendanceSessionPresentCount)
	assert.Equal(t, 0, repo.session.AttendanceSessionAbsentCount)
}

func TestCorrectRejectsOtherTeacher(t *testing.T) {
	sessionDate := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	repo := &fakeCorrectionRepo{
		rec:     model.AttendanceRecordModel{AttendanceRecordID: uuid.New(), AttendanceRecordStatus: model.StatusAbsent},
		session: model.AttendanceSessionModel{AttendanceSessionTeacherID: uuid.New(), AttendanceSessionDate: sessionDate},
	}
	svc := NewCorrectionService(repo)

	err := svc.Correct(uuid.New(), repo.rec.AttendanceRecordID, model.StatusPresent, "", sessionDate)
	assert.Error(t, err)
	assert.Empty(t, repo.updated)
}

func TestCorrectInvalidStatus(t *testing.T) {
	svc := NewCorrectionService(&fakeCorrectionRepo{})
	err := svc.Correct(uuid.New(), uuid.New(), "hadir", "", time.Now())
	assert.Error(t, err)
}

func TestCorrectExcusedKeepsCounters(t *testing.T) {
	teacher := uuid.New()
	sessionDate := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	repo := &fakeCorrectionRepo{
		rec: model.AttendanceRecordModel{AttendanceRecordID: uuid.New(), AttendanceRecordStatus: model.StatusAbsent},
		session: model.AttendanceSessionModel{
			AttendanceSessionTeacherID:    teacher,
			AttendanceSessionDate:         sessionDate,
			AttendanceSessionPresentCount: 1,
			AttendanceSessionAbsentCount:  2,
		},
	}
	svc := NewCorrectionService(repo)

	// absent → excused: keduanya dihitung tidak hadir, counter tidak bergeser
	err := svc.Correct(teacher, repo.rec.AttendanceRecordID, model.StatusExcused, "sakit", sessionDate)
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.session.AttendanceSessionPresentCount)
	assert.Equal(t, 2, repo.session.AttendanceSessionAbsentCount)
	assert.Equal(t, "sakit", repo.rec.AttendanceRecordReasonType)
}
