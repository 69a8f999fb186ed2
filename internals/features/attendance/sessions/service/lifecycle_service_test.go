package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLifecycleHappyPath(t *testing.T) {
	svc := NewLifecycleService()
	teacher := uuid.New()

	d := svc.Begin(teacher, 5, "CS", "A", "DBMS")
	assert.Equal(t, StageFilter, d.Stage)

	d, err := svc.Advance(teacher, StageCapture)
	assert.NoError(t, err)
	assert.Equal(t, StageCapture, d.Stage)

	// review menuntut pengenalan wajah yang sudah sukses
	assert.NoError(t, svc.MarkRecognized(teacher))
	d, err = svc.Advance(teacher, StageReview)
	assert.NoError(t, err)
	assert.Equal(t, StageReview, d.Stage)

	d, err = svc.Advance(teacher, StageSubmitted)
	assert.NoError(t, err)
	assert.Equal(t, StageSubmitted, d.Stage)

	// setelah submitted draft hilang
	assert.Nil(t, svc.Current(teacher))
}

func TestLifecycleNoSkippingOrBackwards(t *testing.T) {
	svc := NewLifecycleService()
	teacher := uuid.New()
	svc.Begin(teacher, 5, "CS", "A", "DBMS")

	// lompat filter → review ditolak
	_, err := svc.Advance(teacher, StageReview)
	assert.Error(t, err)

	// lompat filter → submitted ditolak
	_, err = svc.Advance(teacher, StageSubmitted)
	assert.Error(t, err)

	_, err = svc.Advance(teacher, StageCapture)
	assert.NoError(t, err)

	// mundur capture → filter juga ditolak
	_, err = svc.Advance(teacher, StageFilter)
	assert.Error(t, err)
}

func TestLifecycleReviewRequiresRecognition(t *testing.T) {
	svc := NewLifecycleService()
	teacher := uuid.New()

	// belum ada draft: tidak bisa menandai sukses recognition
	assert.Error(t, svc.MarkRecognized(teacher))

	svc.Begin(teacher, 5, "CS", "A", "DBMS")

	// masih di filter: belum boleh ditandai
	assert.Error(t, svc.MarkRecognized(teacher))

	svc.Advance(teacher, StageCapture)

	// tanpa recognition sukses, capture → review ditolak
	_, err := svc.Advance(teacher, StageReview)
	assert.Error(t, err)
	assert.Equal(t, StageCapture, svc.Current(teacher).Stage)

	assert.NoError(t, svc.MarkRecognized(teacher))
	d, err := svc.Advance(teacher, StageReview)
	assert.NoError(t, err)
	assert.Equal(t, StageReview, d.Stage)
}

func TestLifecycleCancel(t *testing.T) {
	svc := NewLifecycleService()
	teacher := uuid.New()

	assert.Error(t, svc.Cancel(teacher)) // belum ada draft

	svc.Begin(teacher, 5, "CS", "A", "DBMS")
	svc.Advance(teacher, StageCapture)
	assert.NoError(t, svc.Cancel(teacher))
	assert.Nil(t, svc.Current(teacher))

	// setelah cancel harus mulai lagi dari filter
	_, err := svc.Advance(teacher, StageCapture)
	assert.Error(t, err)
}

func TestLifecycleBeginReplacesDraft(t *testing.T) {
	svc := NewLifecycleService()
	teacher := uuid.New()

	svc.Begin(teacher, 5, "CS", "A", "DBMS")
	svc.Advance(teacher, StageCapture)

	// begin baru membuang progres lama
	d := svc.Begin(teacher, 5, "CS", "A", "OS")
	assert.Equal(t, StageFilter, d.Stage)
	assert.Equal(t, "OS", d.Subject)
}

func TestLifecycleIsolatedPerTeacher(t *testing.T) {
	svc := NewLifecycleService()
	a := uuid.New()
	b := uuid.New()

	svc.Begin(a, 5, "CS", "A", "DBMS")
	assert.Nil(t, svc.Current(b))

	svc.Begin(b, 3, "EC", "B", "Signals")
	svc.Advance(a, StageCapture)

	assert.Equal(t, StageCapture, svc.Current(a).Stage)
	assert.Equal(t, StageFilter, svc.Current(b).Stage)
}
