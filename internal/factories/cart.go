package factories

import (
	"math/rand"

	"github.com/fooddash/fooddash/internal/models"
)

type CartFactory struct{}

// CreateItems fabricates a cart of 1 to maxItems line items.
func (cf *CartFactory) CreateItems(maxItems int) []models.CartItem {
	if maxItems < 1 {
		maxItems = 1
	}
	count := rand.Intn(maxItems) + 1
	items := make([]models.CartItem, count)
	for i := range items {
		items[i] = models.CartItem{
			Name:     randomDish(),
			Price:    fake.Float64(0, 150, 900),
			Quantity: fake.IntBetween(1, 3),
			Image:    fake.Internet().URL(),
		}
	}
	return items
}

func randomDish() string {
	dishes := []string{
		"Margherita Pizza", "Chicken Tikka Masala", "Classic Cheeseburger",
		"Pad Thai", "Sushi Roll", "Tacos", "Biryani", "Caesar Salad",
		"Kung Pao Chicken", "Greek Salad", "Ramen", "Falafel Wrap",
		"BBQ Ribs", "Spaghetti Carbonara", "Butter Chicken",
	}
	return dishes[rand.Intn(len(dishes))]
}
