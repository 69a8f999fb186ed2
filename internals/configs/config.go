package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	GoogleClientID   string

	// Base URL layanan ML (face recognition + 4 model analitik)
	MLServiceURL string

	// Konstanta grid jadwal (periode pertama & durasi per periode, menit)
	FirstPeriodStartMinutes int
	PeriodDurationMinutes   int

	// Jendela buka sesi (menit sebelum/ sesudah periode)
	SessionWindowBufferMinutes int

	// Guard slot duplikat (±menit dari start periode)
	SessionDuplicateSlotMinutes int

	// Timeout per stage analitik (detik)
	StageTimeoutSeconds int

	// Kapasitas antrian pipeline analitik
	PipelineQueueSize int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	MLServiceURL = GetEnv("ML_SERVICE_URL", "http://localhost:8001")

	FirstPeriodStartMinutes = GetEnvInt("FIRST_PERIOD_START_MINUTES", 9*60)
	PeriodDurationMinutes = GetEnvInt("PERIOD_DURATION_MINUTES", 55)
	SessionWindowBufferMinutes = GetEnvInt("SESSION_WINDOW_BUFFER_MINUTES", 15)
	SessionDuplicateSlotMinutes = GetEnvInt("SESSION_DUPLICATE_SLOT_MINUTES", 30)
	StageTimeoutSeconds = GetEnvInt("STAGE_TIMEOUT_SECONDS", 20)
	PipelineQueueSize = GetEnvInt("PIPELINE_QUEUE_SIZE", 64)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
	log.Println("✅ ML_SERVICE_URL:", MLServiceURL)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
		log.Printf("⚠️ %s bukan angka, pakai default %d", key, defaultValue)
	}
	return defaultValue
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
