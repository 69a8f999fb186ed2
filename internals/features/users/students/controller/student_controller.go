package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	recognitionService "presensiku_backend/internals/features/attendance/recognition/service"
	"presensiku_backend/internals/features/users/students/dto"
	"presensiku_backend/internals/features/users/students/model"
	helper "presensiku_backend/internals/helpers"
)

var validate = validator.New()

type StudentController struct {
	DB     *gorm.DB
	Client *recognitionService.Client
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{
		DB:     db,
		Client: recognitionService.NewClient(configs.MLServiceURL, configs.StageTimeoutSeconds),
	}
}

/* ===================== REGISTER (ADMIN) ===================== */
// POST /admin/students — registrasi siswa + embedding wajah sekaligus.
// Kalau layanan ML gagal, registrasi dibatalkan (embedding wajib ada).
func (ctrl *StudentController) Register(c *fiber.Ctx) error {
	var req dto.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	images := normalizeImages(req.Images)
	reg, err := ctrl.Client.RegisterFace(images)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	m := req.ToModel()
	m.StudentEmbedding = reg.Embedding
	if err := ctrl.DB.Create(&m).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fiber.NewError(fiber.StatusConflict, "USN sudah terdaftar")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan siswa")
	}
	return helper.JsonCreated(c, "Siswa terdaftar", dto.NewStudentResponse(m))
}

/* ===================== RE-REGISTER FACE (ADMIN) ===================== */
// PATCH /admin/students/:id/face — ulangi registrasi wajah.
func (ctrl *StudentController) ReRegisterFace(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	var req dto.ReRegisterFaceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	reg, err := ctrl.Client.RegisterFace(normalizeImages(req.Images))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	res := ctrl.DB.Model(&model.StudentModel{}).
		Where("students_id = ?", id).
		Update("students_embedding", reg.Embedding)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui embedding")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Embedding diperbarui", fiber.Map{"students_id": id})
}

/* ===================== QUERY ===================== */

// GET /students?semester=&department=&section=
func (ctrl *StudentController) List(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.StudentModel{})
	if s := c.QueryInt("semester"); s > 0 {
		q = q.Where("students_semester = ?", s)
	}
	if d := c.Query("department"); d != "" {
		q = q.Where("students_department = ?", d)
	}
	if s := c.Query("section"); s != "" {
		q = q.Where("students_section = ?", s)
	}

	var list []model.StudentModel
	if err := q.Order("students_usn ASC").Find(&list).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}
	return helper.JsonOK(c, "ok", dto.NewStudentResponses(list))
}

// GET /students/:id
func (ctrl *StudentController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	var m model.StudentModel
	if err := ctrl.DB.Where("students_id = ?", id).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}
	return helper.JsonOK(c, "ok", dto.NewStudentResponse(m))
}

func normalizeImages(images []string) []string {
	out := make([]string, 0, len(images))
	for i, img := range images {
		n, err := helper.NormalizeCapturedFrame(img)
		if err != nil {
			log.Printf("⚠️ foto %d gagal dinormalisasi, pakai apa adanya: %v", i, err)
			n = img
		}
		out = append(out, n)
	}
	return out
}
