package catalog

import "github.com/go-ports/ecorewards/internal/models"

// Seed returns the built-in six-listing dataset.
func Seed() []models.Listing {
	return []models.Listing{
		{
			ID:                "green-valley",
			Name:              "Green Valley Recycling",
			Address:           "123 Green Street, Springfield",
			DistanceKm:        1.2,
			AcceptedMaterials: []string{"Plastic", "Paper", "Glass", "Metal"},
			Category:          models.CategoryGeneral,
			HoursText:         "Mon-Sat 8:00-18:00",
			Rating:            4.5,
			Phone:             "+1-555-0101",
			IsOpenNow:         true,
			RewardPoints:      150,
			RewardsEligible:   true,
			Features:          []string{"Drive-through", "Rewards program"},
		},
		{
			ID:                "earth-friendly",
			Name:              "Earth Friendly Center",
			Address:           "456 Eco Avenue, Springfield",
			DistanceKm:        2.8,
			AcceptedMaterials: []string{"Batteries", "Light Bulbs", "Paint"},
			Category:          models.CategorySpecialty,
			HoursText:         "Tue-Sun 9:00-17:00",
			Rating:            4.2,
			Phone:             "+1-555-0102",
			IsOpenNow:         false,
			RewardPoints:      0,
			RewardsEligible:   false,
			Features:          []string{"Hazardous waste handling"},
		},
		{
			ID:                "urban-hub",
			Name:              "Urban Recycle Hub",
			Address:           "789 City Plaza, Springfield",
			DistanceKm:        0.8,
			AcceptedMaterials: []string{"Plastic", "Paper", "Cardboard"},
			Category:          models.CategoryGeneral,
			HoursText:         "Daily 7:00-20:00",
			Rating:            4.7,
			Phone:             "+1-555-0103",
			IsOpenNow:         true,
			RewardPoints:      200,
			RewardsEligible:   true,
			Features:          []string{"Rewards program", "Bike parking"},
		},
		{
			ID:                "eco-tech",
			Name:              "Eco Tech Solutions",
			Address:           "321 Circuit Road, Springfield",
			DistanceKm:        3.5,
			AcceptedMaterials: []string{"Computers", "Phones", "Televisions", "Cables"},
			Category:          models.CategoryElectronics,
			HoursText:         "Mon-Fri 10:00-19:00",
			Rating:            4.8,
			Phone:             "+1-555-0104",
			IsOpenNow:         true,
			RewardPoints:      175,
			RewardsEligible:   true,
			Features:          []string{"Data wiping", "Rewards program"},
		},
		{
			ID:                "reward-depot",
			Name:              "Recycle & Reward Depot",
			Address:           "654 Market Lane, Springfield",
			DistanceKm:        1.9,
			AcceptedMaterials: []string{"Plastic", "Glass", "Metal", "Cans"},
			Category:          models.CategoryGeneral,
			HoursText:         "Mon-Sat 8:00-20:00",
			Rating:            4.6,
			Phone:             "+1-555-0105",
			IsOpenNow:         true,
			RewardPoints:      225,
			RewardsEligible:   true,
			Features:          []string{"Rewards program", "Cash for cans"},
		},
		{
			ID:                "materials-exchange",
			Name:              "Green Earth Materials Exchange",
			Address:           "987 Harbor Road, Springfield",
			DistanceKm:        4.1,
			AcceptedMaterials: []string{"Wood", "Textiles", "Furniture"},
			Category:          models.CategorySpecialty,
			HoursText:         "Wed-Sun 10:00-16:00",
			Rating:            4.3,
			Phone:             "+1-555-0106",
			IsOpenNow:         false,
			RewardPoints:      0,
			RewardsEligible:   false,
			Features:          []string{"Reuse marketplace"},
		},
	}
}
