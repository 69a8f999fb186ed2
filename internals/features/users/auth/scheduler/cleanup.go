package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	"presensiku_backend/internals/features/users/auth/model"
)

// StartTokenCleanupScheduler membersihkan token blacklist dan refresh
// token kedaluwarsa sekali sehari.
func StartTokenCleanupScheduler(db *gorm.DB) {
	go func() {
		ttlDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)

		for {
			log.Println("[CLEANUP] Membersihkan token kedaluwarsa...")
			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			res := db.Unscoped().
				Where("expired_at < ?", deleteBefore).
				Delete(&model.TokenBlacklist{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] blacklist: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d token blacklist dihapus", res.RowsAffected)
			}

			res = db.
				Where("expires_at < ?", deleteBefore).
				Delete(&model.RefreshTokenModel{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] refresh token: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d refresh token dihapus", res.RowsAffected)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
