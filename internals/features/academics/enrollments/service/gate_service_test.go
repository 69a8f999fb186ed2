package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"presensiku_backend/internals/features/academics/enrollments/model"
)

/* =======================================================
   Fake repo in-memory
   ======================================================= */

type fakeRepo struct {
	intervals []model.EnrollmentModel
}

func (f *fakeRepo) FindTeacherInterval(teacherID uuid.UUID, semester int, department, section, subject string) (*model.EnrollmentModel, error) {
	for i := range f.intervals {
		iv := f.intervals[i]
		if iv.EnrollmentOwnerID == teacherID &&
			iv.EnrollmentOwnerRole == model.OwnerTeacher &&
			iv.EnrollmentSemester == semester &&
			iv.EnrollmentDepartment == department &&
			iv.EnrollmentSection == section &&
			iv.EnrollmentSubject == subject {
			return &f.intervals[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListByCombination(semester int, department, section, subject string) ([]model.EnrollmentModel, error) {
	var out []model.EnrollmentModel
	for _, iv := range f.intervals {
		if iv.EnrollmentSemester == semester &&
			iv.EnrollmentDepartment == department &&
			iv.EnrollmentSection == section &&
			iv.EnrollmentSubject == subject {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByOwner(ownerID uuid.UUID) ([]model.EnrollmentModel, error) {
	var out []model.EnrollmentModel
	for _, iv := range f.intervals {
		if iv.EnrollmentOwnerID == ownerID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(m *model.EnrollmentModel) error {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	f.intervals = append(f.intervals, *m)
	return nil
}

func (f *fakeRepo) Complete(id uuid.UUID, completionDate time.Time) error {
	for i := range f.intervals {
		if f.intervals[i].EnrollmentID == id {
			d := completionDate
			f.intervals[i].EnrollmentCompletionDate = &d
			return nil
		}
	}
	return nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

/* =======================================================
   Authorization Gate
   ======================================================= */

func TestAuthorize(t *testing.T) {
	teacherID := uuid.New()
	completion := date("2024-12-31")
	repo := &fakeRepo{intervals: []model.EnrollmentModel{{
		EnrollmentID:             uuid.New(),
		EnrollmentOwnerID:        teacherID,
		EnrollmentOwnerRole:      model.OwnerTeacher,
		EnrollmentSemester:       5,
		EnrollmentDepartment:     "CS",
		EnrollmentSection:        "A",
		EnrollmentSubject:        "DBMS",
		EnrollmentDate:           date("2024-08-01"),
		EnrollmentCompletionDate: &completion,
	}}}
	svc := NewGateService(repo)

	tests := []struct {
		name        string
		asOf        string
		wantAllowed bool
		wantReason  string
	}{
		{name: "before enrollment", asOf: "2024-07-15", wantAllowed: false, wantReason: ReasonNotYetActive},
		{name: "first day", asOf: "2024-08-01", wantAllowed: true},
		{name: "mid interval", asOf: "2024-10-01", wantAllowed: true},
		{name: "last day", asOf: "2024-12-31", wantAllowed: true},
		{name: "after completion", asOf: "2025-01-05", wantAllowed: false, wantReason: ReasonEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := svc.Authorize(teacherID, 5, "CS", "A", "DBMS", date(tt.asOf))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestAuthorizeNotAssigned(t *testing.T) {
	svc := NewGateService(&fakeRepo{})
	d, err := svc.Authorize(uuid.New(), 5, "CS", "A", "DBMS", date("2024-10-01"))
	assert.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAssigned, d.Reason)
}

func TestAuthorizeDeniedCarriesDates(t *testing.T) {
	teacherID := uuid.New()
	repo := &fakeRepo{intervals: []model.EnrollmentModel{{
		EnrollmentOwnerID:    teacherID,
		EnrollmentOwnerRole:  model.OwnerTeacher,
		EnrollmentSemester:   3,
		EnrollmentDepartment: "EC",
		EnrollmentSection:    "B",
		EnrollmentSubject:    "Signals",
		EnrollmentDate:       date("2025-02-01"),
	}}}
	svc := NewGateService(repo)

	d, err := svc.Authorize(teacherID, 3, "EC", "B", "Signals", date("2025-01-15"))
	assert.NoError(t, err)
	assert.False(t, d.Allowed)
	if assert.NotNil(t, d.ActivatesOn) {
		assert.Equal(t, date("2025-02-01"), *d.ActivatesOn)
	}
	assert.Nil(t, d.EndedOn)
}

// Monotonic: kalau authorized di t, harus authorized juga untuk semua t'
// antara enrollment_date dan t.
func TestAuthorizeMonotonic(t *testing.T) {
	teacherID := uuid.New()
	repo := &fakeRepo{intervals: []model.EnrollmentModel{{
		EnrollmentOwnerID:    teacherID,
		EnrollmentOwnerRole:  model.OwnerTeacher,
		EnrollmentSemester:   5,
		EnrollmentDepartment: "CS",
		EnrollmentSection:    "A",
		EnrollmentSubject:    "DBMS",
		EnrollmentDate:       date("2024-08-01"),
	}}}
	svc := NewGateService(repo)

	upper, err := svc.Authorize(teacherID, 5, "CS", "A", "DBMS", date("2024-11-20"))
	assert.NoError(t, err)
	assert.True(t, upper.Allowed)

	for d := date("2024-08-01"); !d.After(date("2024-11-20")); d = d.AddDate(0, 0, 7) {
		got, err := svc.Authorize(teacherID, 5, "CS", "A", "DBMS", d)
		assert.NoError(t, err)
		assert.True(t, got.Allowed, "harus authorized pada %s", d.Format("2006-01-02"))
	}
}

func TestAuthorizeValidation(t *testing.T) {
	svc := NewGateService(&fakeRepo{})

	_, err := svc.Authorize(uuid.Nil, 5, "CS", "A", "DBMS", time.Time{})
	assert.Error(t, err)

	_, err = svc.Authorize(uuid.New(), 0, "CS", "A", "DBMS", time.Time{})
	assert.Error(t, err)

	_, err = svc.Authorize(uuid.New(), 5, "", "A", "DBMS", time.Time{})
	assert.Error(t, err)
}
