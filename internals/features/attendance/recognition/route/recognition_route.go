package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	recognitionCtrl "presensiku_backend/internals/features/attendance/recognition/controller"
)

// RecognitionTeacherRoutes: proxy ke layanan face recognition.
func RecognitionTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := recognitionCtrl.NewRecognitionController(db)

	g := r.Group("/recognition")
	g.Post("/recognize", ctrl.Recognize)
}
