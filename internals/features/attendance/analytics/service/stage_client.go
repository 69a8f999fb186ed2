package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"presensiku_backend/internals/features/attendance/analytics/model"
)

/* =======================================================
   Klien empat tahap analitik di layanan ML:
     POST /analyze/trend          {attendanceSeries}        → {trend}
     POST /analyze/consistency    {attendanceSeries}        → {consistency}
     POST /analyze/attentiveness  {attentivenessSeries, consistency}
                                                            → {attentiveness}
     POST /analyze/risk           {trend, consistency, attentiveness,
                                   attendanceRate}          → {risk}
   Tiap tahap dibatasi timeout sendiri.
   ======================================================= */

// StageRunner: dieksekusi orchestrator; diabstraksi agar bisa difake di test.
type StageRunner interface {
	Trend(ctx context.Context, attendanceSeries []string) (string, error)
	Consistency(ctx context.Context, attendanceSeries []string) (string, error)
	Attentiveness(ctx context.Context, attentivenessSeries []string, consistency string) (string, error)
	Risk(ctx context.Context, trend, consistency, attentiveness string, attendanceRate float64) (string, error)
}

type StageClient struct {
	baseURL string
	timeout time.Duration
}

func NewStageClient(baseURL string, timeoutSeconds int) *StageClient {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	return &StageClient{baseURL: baseURL, timeout: time.Duration(timeoutSeconds) * time.Second}
}

func (c *StageClient) Trend(ctx context.Context, attendanceSeries []string) (string, error) {
	out, err := c.call(ctx, "/analyze/trend", fiber.Map{"attendanceSeries": attendanceSeries}, "trend")
	if err != nil {
		return "", err
	}
	if !model.KnownTrend(out) {
		log.Printf("⚠️ nilai trend tidak dikenal: %q", out)
	}
	return out, nil
}

func (c *StageClient) Consistency(ctx context.Context, attendanceSeries []string) (string, error) {
	out, err := c.call(ctx, "/analyze/consistency", fiber.Map{"attendanceSeries": attendanceSeries}, "consistency")
	if err != nil {
		return "", err
	}
	if !model.KnownConsistency(out) {
		log.Printf("⚠️ nilai consistency tidak dikenal: %q", out)
	}
	return out, nil
}

func (c *StageClient) Attentiveness(ctx context.Context, attentivenessSeries []string, consistency string) (string, error) {
	out, err := c.call(ctx, "/analyze/attentiveness", fiber.Map{
		"attentivenessSeries": attentivenessSeries,
		"consistency":         consistency,
	}, "attentiveness")
	if err != nil {
		return "", err
	}
	if !model.KnownAttentiveness(out) {
		log.Printf("⚠️ nilai attentiveness tidak dikenal: %q", out)
	}
	return out, nil
}

func (c *StageClient) Risk(ctx context.Context, trend, consistency, attentiveness string, attendanceRate float64) (string, error) {
	out, err := c.call(ctx, "/analyze/risk", fiber.Map{
		"trend":          trend,
		"consistency":    consistency,
		"attentiveness":  attentiveness,
		"attendanceRate": attendanceRate,
	}, "risk")
	if err != nil {
		return "", err
	}
	if !model.KnownRisk(out) {
		log.Printf("⚠️ nilai risk tidak dikenal: %q", out)
	}
	return out, nil
}

// call mengirim satu request tahap dan mengambil satu field string dari
// jawabannya. Field kosong dianggap jawaban rusak.
func (c *StageClient) call(ctx context.Context, path string, payload fiber.Map, field string) (string, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	agent := fiber.Post(c.baseURL + path)
	agent.Timeout(timeout)
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.Body(raw)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("tahap %s gagal: %w", path, errs[0])
	}
	if code < 200 || code >= 300 {
		return "", fmt.Errorf("tahap %s menjawab status %d", path, code)
	}

	var parsed map[string]interface{}
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("jawaban tahap %s tidak bisa dibaca: %w", path, err)
	}
	val, _ := parsed[field].(string)
	if strings.TrimSpace(val) == "" {
		return "", fmt.Errorf("tahap %s tidak mengembalikan field %q", path, field)
	}
	return val, nil
}
