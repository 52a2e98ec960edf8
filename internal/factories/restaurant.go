package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/fooddash/fooddash/internal/models"
)

var fake = faker.New()

type RestaurantFactory struct{}

// CreateRestaurant fabricates the restaurant snapshot a storefront would
// attach to an order.
func (rf *RestaurantFactory) CreateRestaurant() models.RestaurantInfo {
	return models.RestaurantInfo{
		ID:      cuid.New(),
		Name:    fake.Company().Name(),
		Cuisine: randomCuisine(),
	}
}

func randomCuisine() string {
	allCuisines := []string{
		"Italian", "Indian", "American", "Japanese", "Mexican", "Chinese",
		"Thai", "Greek", "French", "Mediterranean", "Fast Food", "Street Food",
	}
	return allCuisines[rand.Intn(len(allCuisines))]
}
