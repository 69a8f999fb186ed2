package service

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =======================================================
   Klien layanan face recognition (kolaborator eksternal).
   Kontrak wire:
     POST {base}/register   {"images":[b64...]}            → {"embedding":[...]}
     POST {base}/recognize  {"images":[...],"enrolledStudents":[...]}
                            → {"recognizedStudents":[...], ...}
   Kegagalan layanan adalah hard failure: tidak ada fallback.
   ======================================================= */

// EnrolledStudent: kandidat pencocokan yang dikirim ke layanan ML.
type EnrolledStudent struct {
	ID        uuid.UUID      `json:"id"`
	USN       string         `json:"usn"`
	Name      string         `json:"name"`
	Embedding datatypes.JSON `json:"embedding"`
}

type RecognizedStudent struct {
	USN           string  `json:"usn"`
	Confidence    float64 `json:"confidence"`
	Attentiveness string  `json:"attentiveness"`
	Emotion       string  `json:"emotion"`
}

type RecognizeResult struct {
	RecognizedStudents []RecognizedStudent `json:"recognizedStudents"`
	TotalFacesDetected int                 `json:"totalFacesDetected"`
	ProcessedImages    int                 `json:"processedImages"`
}

type RegisterResult struct {
	Embedding datatypes.JSON `json:"embedding"`
}

type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeoutSeconds int) *Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	return &Client{baseURL: baseURL, timeout: time.Duration(timeoutSeconds) * time.Second}
}

// RegisterFace mengirim foto pendaftaran dan menerima embedding wajah.
func (c *Client) RegisterFace(images []string) (*RegisterResult, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("minimal satu foto untuk registrasi wajah")
	}

	var out RegisterResult
	if err := c.post("/register", fiber.Map{"images": images}, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("layanan ML tidak mengembalikan embedding")
	}
	return &out, nil
}

// Recognize mengirim frame kelas + kandidat siswa, menerima hasil pencocokan.
func (c *Client) Recognize(images []string, enrolled []EnrolledStudent) (*RecognizeResult, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("minimal satu frame untuk pengenalan")
	}
	if len(enrolled) == 0 {
		return nil, fmt.Errorf("tidak ada kandidat siswa untuk dicocokkan")
	}

	payload := fiber.Map{
		"images":           images,
		"enrolledStudents": enrolled,
	}
	var out RecognizeResult
	if err := c.post("/recognize", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(path string, payload interface{}, out interface{}) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}

	agent := fiber.Post(c.baseURL + path)
	agent.Timeout(c.timeout)
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.Body(raw)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("layanan ML tidak terjangkau: %w", errs[0])
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("layanan ML menjawab status %d", code)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("jawaban layanan ML tidak bisa dibaca: %w", err)
	}
	return nil
}
