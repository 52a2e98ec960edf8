package factories

import (
	"math/rand"

	"github.com/fooddash/fooddash/internal/models"
)

type DeliveryInfoFactory struct{}

// CreateDeliveryInfo fabricates the checkout form data.
func (df *DeliveryInfoFactory) CreateDeliveryInfo() models.DeliveryInfo {
	info := models.DeliveryInfo{
		Address: fake.Address().Address(),
		Name:    fake.Person().Name(),
		Phone:   fake.Phone().Number(),
	}
	if rand.Float64() < 0.3 {
		info.Instructions = fake.Lorem().Sentence(6)
	}
	return info
}
