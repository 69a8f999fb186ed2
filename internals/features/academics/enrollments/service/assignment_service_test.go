package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"presensiku_backend/internals/features/academics/enrollments/model"
)

var dbmsCombo = Combination{Semester: 5, Department: "CS", Section: "A", Subject: "DBMS"}

func TestCheckAssignmentConflicts(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	repo := &fakeRepo{intervals: []model.EnrollmentModel{
		{
			EnrollmentOwnerID:    me,
			EnrollmentOwnerRole:  model.OwnerTeacher,
			EnrollmentSemester:   5,
			EnrollmentDepartment: "CS",
			EnrollmentSection:    "A",
			EnrollmentSubject:    "DBMS",
			EnrollmentDate:       date("2024-08-01"),
		},
		{
			EnrollmentOwnerID:    other,
			EnrollmentOwnerRole:  model.OwnerTeacher,
			EnrollmentSemester:   5,
			EnrollmentDepartment: "CS",
			EnrollmentSection:    "A",
			EnrollmentSubject:    "OS",
			EnrollmentDate:       date("2024-08-01"),
		},
	}}
	svc := NewAssignmentService(repo)

	t.Run("duplicate milik sendiri", func(t *testing.T) {
		report, err := svc.CheckAssignmentConflicts(me, []Combination{dbmsCombo}, date("2024-08-01"))
		assert.NoError(t, err)
		assert.Len(t, report.Duplicates, 1)
		assert.Empty(t, report.Conflicts)
	})

	t.Run("konflik dengan guru lain", func(t *testing.T) {
		osCombo := Combination{Semester: 5, Department: "CS", Section: "A", Subject: "OS"}
		report, err := svc.CheckAssignmentConflicts(me, []Combination{osCombo}, date("2024-09-01"))
		assert.NoError(t, err)
		assert.Empty(t, report.Duplicates)
		assert.Len(t, report.Conflicts, 1)
	})

	t.Run("interval guru lain sudah lewat bukan konflik", func(t *testing.T) {
		done := date("2024-06-30")
		repo2 := &fakeRepo{intervals: []model.EnrollmentModel{{
			EnrollmentOwnerID:        other,
			EnrollmentOwnerRole:      model.OwnerTeacher,
			EnrollmentSemester:       5,
			EnrollmentDepartment:     "CS",
			EnrollmentSection:        "A",
			EnrollmentSubject:        "DBMS",
			EnrollmentDate:           date("2024-01-01"),
			EnrollmentCompletionDate: &done,
		}}}
		report, err := NewAssignmentService(repo2).CheckAssignmentConflicts(me, []Combination{dbmsCombo}, date("2024-08-01"))
		assert.NoError(t, err)
		assert.Empty(t, report.Conflicts)
	})
}

func TestAssignTeacher(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	t.Run("duplicate selalu ditolak", func(t *testing.T) {
		repo := &fakeRepo{intervals: []model.EnrollmentModel{{
			EnrollmentOwnerID:    me,
			EnrollmentOwnerRole:  model.OwnerTeacher,
			EnrollmentSemester:   5,
			EnrollmentDepartment: "CS",
			EnrollmentSection:    "A",
			EnrollmentSubject:    "DBMS",
			EnrollmentDate:       date("2024-08-01"),
		}}}
		svc := NewAssignmentService(repo)

		_, report, err := svc.AssignTeacher(me, []Combination{dbmsCombo}, date("2024-08-01"), true)
		assert.Error(t, err)
		assert.Len(t, report.Duplicates, 1)
		assert.Len(t, repo.intervals, 1) // tidak ada baris baru
	})

	t.Run("konflik tanpa force ditolak", func(t *testing.T) {
		repo := &fakeRepo{intervals: []model.EnrollmentModel{{
			EnrollmentOwnerID:    other,
			EnrollmentOwnerRole:  model.OwnerTeacher,
			EnrollmentSemester:   5,
			EnrollmentDepartment: "CS",
			EnrollmentSection:    "A",
			EnrollmentSubject:    "DBMS",
			EnrollmentDate:       date("2024-08-01"),
		}}}
		svc := NewAssignmentService(repo)

		_, report, err := svc.AssignTeacher(me, []Combination{dbmsCombo}, date("2024-09-01"), false)
		assert.Error(t, err)
		assert.Len(t, report.Conflicts, 1)
		assert.Len(t, repo.intervals, 1)
	})

	t.Run("force menambah baris co-teaching", func(t *testing.T) {
		repo := &fakeRepo{intervals: []model.EnrollmentModel{{
			EnrollmentOwnerID:    other,
			EnrollmentOwnerRole:  model.OwnerTeacher,
			EnrollmentSemester:   5,
			EnrollmentDepartment: "CS",
			EnrollmentSection:    "A",
			EnrollmentSubject:    "DBMS",
			EnrollmentDate:       date("2024-08-01"),
		}}}
		svc := NewAssignmentService(repo)

		created, report, err := svc.AssignTeacher(me, []Combination{dbmsCombo}, date("2024-09-01"), true)
		assert.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Len(t, report.Conflicts, 1)
		assert.Len(t, repo.intervals, 2) // baris lama tetap ada
	})
}

func TestEnrollStudent(t *testing.T) {
	student := uuid.New()

	t.Run("satu semester sekali", func(t *testing.T) {
		repo := &fakeRepo{intervals: []model.EnrollmentModel{{
			EnrollmentOwnerID:    student,
			EnrollmentOwnerRole:  model.OwnerStudent,
			EnrollmentSemester:   5,
			EnrollmentDepartment: "CS",
			EnrollmentSection:    "A",
			EnrollmentSubject:    "DBMS",
			EnrollmentDate:       date("2024-08-01"),
		}}}
		svc := NewAssignmentService(repo)

		_, err := svc.EnrollStudent(student, dbmsCombo, date("2025-01-10"))
		assert.Error(t, err)
	})

	t.Run("satu pendaftaran per bulan", func(t *testing.T) {
		repo := &fakeRepo{intervals: []model.EnrollmentModel{{
			EnrollmentOwnerID:    student,
			EnrollmentOwnerRole:  model.OwnerStudent,
			EnrollmentSemester:   4,
			EnrollmentDepartment: "CS",
			EnrollmentSection:    "A",
			EnrollmentSubject:    "OS",
			EnrollmentDate:       date("2024-08-01"),
		}}}
		svc := NewAssignmentService(repo)

		_, err := svc.EnrollStudent(student, dbmsCombo, date("2024-08-20"))
		assert.Error(t, err)

		m, err := svc.EnrollStudent(student, dbmsCombo, date("2024-09-02"))
		assert.NoError(t, err)
		assert.Equal(t, model.OwnerStudent, m.EnrollmentOwnerRole)
	})
}
