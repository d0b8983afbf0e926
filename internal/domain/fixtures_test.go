package domain

func testCatalog() *Catalog {
	return &Catalog{
		Vehicles: []VehicleRate{
			{Vehicle: "Lexus ES350", Capacity: 4, FullDayDubai: 650, HalfDayDubai: 420, FullDayAbuDhabi: 780, TransferDXB: 115},
			{Vehicle: "7-Seater", Capacity: 7, FullDayDubai: 720, HalfDayDubai: 400, FullDayAbuDhabi: 800, TransferDXB: 115},
			{Vehicle: "Grand Coach", Capacity: 50, FullDayDubai: 1105, HalfDayDubai: 715, FullDayAbuDhabi: 1235, TransferDXB: 310},
		},
		Zones: []Zone{
			{ID: 1, Name: "Old Dubai", Rates: map[CapacityBucket]int{Seater4: 115, Seater7: 115, Seater50: 520}},
			{ID: 2, Name: "Central Dubai", Rates: map[CapacityBucket]int{Seater4: 130, Seater7: 144, Seater12: 170}},
			{ID: 9, Name: "Edge", Rates: map[CapacityBucket]int{Seater12: 300}},
		},
		Attractions: []Attraction{
			{ID: "burj", Name: "Burj Khalifa", SellPrice: 159, NetPrice: 120, Category: AttractionCulture},
			{ID: "frame", Name: "Dubai Frame", SellPrice: 75, NetPrice: 60, Category: AttractionCulture},
		},
		Tours: []Tour{
			{
				ID: "dubai-full-day", Name: "Dubai Full-Day Explore Tour", Category: CategoryDubai,
				Duration:   "~10 hours (Drop-off ~8:30 PM)",
				Highlights: []string{"Zabeel Palace", "Museum of the Future", "Gold & Spice Souks"},
				VisualCues: []string{"🌆"}, Margin: MarginMedium, IdealFor: []string{"First-timers", "Families"},
			},
			{
				ID: "desert-safari-sharing", Name: "Premium Desert Safari", Category: CategoryDesert,
				Duration:   "~6 hours",
				Highlights: []string{"Dune bashing", "Sunset photo", "BBQ Dinner", "Fire Show"},
				VisualCues: []string{"🏜️"}, Margin: MarginMedium,
			},
			{
				ID: "abu-dhabi-city", Name: "Abu Dhabi City Tour", Category: CategoryAbuDhabi,
				Duration:   "~11.5 hours",
				Highlights: []string{"Sheikh Zayed Grand Mosque", "Heritage Village", "Corniche"},
				VisualCues: []string{"🕌"}, Margin: MarginHigh,
			},
			{
				ID: "hot-air-balloon", Name: "Hot Air Balloon Experience", Category: CategoryExperience,
				Duration:     "~4 hours",
				Highlights:   []string{"Sunrise flight", "Dune views", "Falcon show"},
				Requirements: []string{"ID mandatory", "Age 5-80"},
				VisualCues:   []string{"🎈"}, Margin: MarginHigh,
			},
			{
				ID: "dhow-cruise-marina", Name: "Dhow Cruise Dubai Marina", Category: CategoryCruise,
				Duration:   "90 minutes",
				Highlights: []string{"Skyline views", "Buffet dinner", "Tanoura Show"},
				VisualCues: []string{"🚢"}, Margin: MarginMedium,
			},
			{
				ID: "buggy-quad", Name: "DTT Buggy / Quad Adventure", Category: CategoryAdventure,
				Duration:     "~4 hours",
				Highlights:   []string{"Self-drive buggy", "Dune bashing", "Sandboarding"},
				Requirements: []string{"Buggy: 20+ with valid license", "Quad: 16+ years"},
				VisualCues:   []string{"🚙"}, Margin: MarginHigh,
			},
		},
		Combos: []ComboPackage{
			{ID: "abu-dhabi-ferrari", Name: "Abu Dhabi + Ferrari World", Items: []string{"Private Transfer", "Ferrari World Tix", "Grand Mosque Visit"}, IdealFor: []string{"Families", "Adventure seekers"}, Margin: MarginHigh},
			{ID: "full-day-dubai", Name: "Full Day Dubai Ultimate", Items: []string{"Bastakiya", "Abra Ride", "Gold Souq"}, IdealFor: []string{"Families", "Culture lovers"}, Margin: MarginMedium},
			{ID: "dhow-dinner", Name: "Marina Dhow Dinner", Items: []string{"90 Min Cruise", "Intl Buffet"}, IdealFor: []string{"Couples", "Families"}, Margin: MarginMedium},
			{ID: "buggy-safari", Name: "Dune Buggy Safari", Items: []string{"1hr Buggy (Self Drive)", "Sand Boarding"}, IdealFor: []string{"Adventure seekers", "VIP"}, Margin: MarginHigh},
		},
	}
}

func tourIDs(tours []RankedTour) []string {
	ids := make([]string, 0, len(tours))
	for _, t := range tours {
		ids = append(ids, t.Tour.ID)
	}

	return ids
}

func comboIDs(combos []ComboPackage) []string {
	ids := make([]string, 0, len(combos))
	for _, c := range combos {
		ids = append(ids, c.ID)
	}

	return ids
}
