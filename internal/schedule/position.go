package schedule

import (
	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
)

// PositionOf maps an instant onto a 24 hour timeline where each hour is hourWidthUnits wide
func PositionOf(instant models.TimeOfDay, hourWidthUnits float64) float64 {
	return (float64(instant.Hour) + float64(instant.Minute)/constants.MinutesPerHour) * hourWidthUnits
}
