package activity

import (
	"encoding/json"
	"fmt"

	"club-backend/internal/models"

	"gorm.io/gorm"
)

type Entry struct {
	ShiftID     uint
	Type        models.ActivityType
	Description string
	Amount      float64
	Metadata    any
}

// Append writes one activity row. Takes the caller's db handle so an
// append can ride inside the caller's transaction.
func Append(db *gorm.DB, e Entry) error {
	// jsonb column wants valid JSON, never an empty string
	metaStr := "null"
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			metaStr = string(b)
		}
	}

	row := models.ShiftActivity{
		ShiftID:      e.ShiftID,
		ActivityType: e.Type,
		Description:  e.Description,
		Amount:       e.Amount,
		Metadata:     metaStr,
	}

	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("could not append shift activity: %w", err)
	}
	return nil
}
