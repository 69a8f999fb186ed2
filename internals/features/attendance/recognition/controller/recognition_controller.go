package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	"presensiku_backend/internals/features/attendance/recognition/service"
	sessionService "presensiku_backend/internals/features/attendance/sessions/service"
	helper "presensiku_backend/internals/helpers"
)

var validate = validator.New()

type RecognitionController struct {
	DB     *gorm.DB
	Repo   *service.GormRepository
	Client *service.Client
}

func NewRecognitionController(db *gorm.DB) *RecognitionController {
	return &RecognitionController{
		DB:     db,
		Repo:   service.NewGormRepository(db),
		Client: service.NewClient(configs.MLServiceURL, configs.StageTimeoutSeconds),
	}
}

type recognizeRequest struct {
	Semester   int      `json:"semester" validate:"required,min=1,max=14"`
	Department string   `json:"department" validate:"required"`
	Section    string   `json:"section" validate:"required"`
	Subject    string   `json:"subject" validate:"required"`
	Images     []string `json:"images" validate:"required,min=1,max=10"`
}

// POST /recognition/recognize
// Frame dinormalisasi dulu (webp→jpeg, resize) sebelum dikirim ke layanan ML.
func (ctrl *RecognitionController) Recognize(c *fiber.Ctx) error {
	var req recognizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	normalized := make([]string, 0, len(req.Images))
	for i, img := range req.Images {
		n, err := helper.NormalizeCapturedFrame(img)
		if err != nil {
			log.Printf("⚠️ frame %d gagal dinormalisasi, pakai apa adanya: %v", i, err)
			n = img
		}
		normalized = append(normalized, n)
	}

	candidates, err := ctrl.Repo.ListEnrolledCandidates(req.Semester, req.Department, req.Section, req.Subject)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil kandidat siswa")
	}
	if len(candidates) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Tidak ada siswa dengan embedding pada kombinasi ini")
	}

	result, err := ctrl.Client.Recognize(normalized, candidates)
	if err != nil {
		// kolaborator gagal = capture gagal; UI harus menawarkan ulang
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	// Sukses pengenalan membuka jalan draft ke tahap review. Kalau guru
	// memanggil endpoint ini tanpa draft aktif, tidak apa-apa.
	if teacherID, err := helper.GetUserIDFromToken(c); err == nil {
		if err := sessionService.SharedLifecycle().MarkRecognized(teacherID); err != nil {
			log.Printf("ℹ️ recognize tanpa draft capture aktif: %v", err)
		}
	}
	return helper.JsonOK(c, "ok", result)
}
