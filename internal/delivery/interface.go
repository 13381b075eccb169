package delivery

import "github.com/postforge/postforge/internal/models"

// DeliveryInterface defines the contract for outbound run delivery
type DeliveryInterface interface {
	SendRun(run *models.GenerationRun) error
}
