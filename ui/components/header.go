package components

import (
	"fmt"

	"github.com/Rorical/BooklyDesk/internal/models"
	"github.com/Rorical/BooklyDesk/ui/styles"
)

const Title = "Bookly Support"

func RenderHeader(sessionID string, turnCount int, health models.ServiceHealth, width int) string {
	healthBadge := health.String()
	if health == models.HealthOnline || health == models.HealthOffline {
		healthBadge = styles.HealthStyle(health == models.HealthOnline).Render(healthBadge)
	}
	content := fmt.Sprintf("%s  |  Session: %s  |  Messages: %d  |  %s",
		Title, sessionID, turnCount, healthBadge)
	return styles.HeaderStyle(width).Render(content)
}
