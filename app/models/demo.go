package models

// DemoSnapshot is the built-in catalog shown before the store has been reached
// for the first time, and seeded by `agromart seed`.
func DemoSnapshot() Snapshot {
	s := DefaultSnapshot()
	s.BannerImage = "https://placehold.co/800x300/2e7d32/ffffff?text=AgroMart+Special+Offers"
	s.Categories = []Category{
		{ID: "fertilizer", Name: "Fertilizer", Icon: "fas fa-seedling"},
		{ID: "pesticide", Name: "Pesticide", Icon: "fas fa-bug"},
	}
	s.Products = []Product{
		{
			ID:            1,
			Name:          "Seaweed Extract Natural Organic Fertilizer",
			Image:         "images/product1_1.png",
			Category:      "fertilizer",
			OriginalPrice: 11250,
			OfferPrice:    7875,
			Discount:      30,
			Rating:        4.8,
			ReviewCount:   124,
			BestSelling:   true,
			Description:   "Seaweed Extract is a natural fertilizer rich in organic matter. Biostimulant fertilizer is used to enhance soil quality, improve crop health, and increase crop yield.",
			Images:        []string{"images/product1_1.png", "images/product1_2.png", "images/product1_3.png"},
			Variants: []Variant{
				{Weight: "25 kg (25 Kg X 1 Qty)", Price: 7875, OriginalPrice: 11250},
				{Weight: "50 kg (25 Kg X 2 Qty)", Price: 15556, OriginalPrice: 22222},
				{Weight: "100 kg (25 Kg X 4 Qty)", Price: 30362, OriginalPrice: 43374},
				{Weight: "250 kg (25 Kg X 10 Qty)", Price: 73256, OriginalPrice: 104651},
				{Weight: "500 kg (25 Kg X 20 Qty)", Price: 143182, OriginalPrice: 204545},
				{Weight: "1000 kg (25 Kg X 40 Qty)", Price: 280000, OriginalPrice: 400000},
				{Weight: "2000 kg (25 Kg X 80 Qty)", Price: 547827, OriginalPrice: 782610},
			},
			TechnicalDetails: map[string]string{
				"Brand":             "Noble Crop Science",
				"Product Code":      "4873",
				"Country of Origin": "India",
				"Category":          "Fertilizers",
				"Sub Category":      "Bulk Fertilizer",
			},
			BulkOrderNumber: DefaultWhatsAppNumber,
		},
		demoProduct(2, "Urea Fertilizer 50kg Bag", "66bb6a/ffffff?text=Urea+50kg", "fertilizer", 1200, 999, 17, 4.3, 95, true, "High quality Urea fertilizer for all crops."),
		demoProduct(3, "DAP Fertilizer 25kg Pack", "81c784/ffffff?text=DAP+25kg", "fertilizer", 1500, 1299, 13, 4.7, 156, false, "DAP Fertilizer for root development."),
		demoProduct(4, "Organic Compost 10kg", "a5d6a7/333333?text=Organic+Compost", "fertilizer", 450, 399, 11, 4.2, 67, false, "Rich organic compost."),
		demoProduct(5, "Potash Fertilizer MOP 20kg", "43a047/ffffff?text=Potash+MOP", "fertilizer", 980, 849, 13, 4.4, 89, true, "Potash for fruit quality."),
		demoProduct(6, "Micronutrient Mix 5kg", "388e3c/ffffff?text=Micronutrient", "fertilizer", 650, 549, 16, 4.1, 45, false, "Essential micronutrients mix."),
		demoProduct(7, "Neem Oil Organic Pesticide 1L", "ff9800/ffffff?text=Neem+Oil+1L", "pesticide", 450, 379, 16, 4.6, 234, true, "Organic Neem Oil for pest control."),
		demoProduct(8, "Insecticide Spray 500ml", "ffa726/ffffff?text=Insecticide+Spray", "pesticide", 320, 269, 16, 4.3, 112, true, "Effective insecticide spray."),
		demoProduct(9, "Fungicide Powder 250g", "ffb74d/333333?text=Fungicide+250g", "pesticide", 280, 229, 18, 4.4, 78, false, "Fungicide for plant diseases."),
		demoProduct(10, "Herbicide Concentrate 1L", "f57c00/ffffff?text=Herbicide+1L", "pesticide", 550, 459, 17, 4.2, 56, false, "Herbicide for weed control."),
		demoProduct(11, "Bio Pesticide Organic 500ml", "ef6c00/ffffff?text=Bio+Pesticide", "pesticide", 380, 319, 16, 4.5, 98, true, "Bio-pesticide for safe farming."),
		demoProduct(12, "Rodent Control Pack", "e65100/ffffff?text=Rodent+Control", "pesticide", 220, 189, 14, 4.0, 34, false, "Rodent control solution."),
	}
	return s
}

func demoProduct(id int, name, placeholder, category string, original, offer, discount int, rating float64, reviews int, best bool, description string) Product {
	return Product{
		ID:               id,
		Name:             name,
		Image:            "https://placehold.co/400x400/" + placeholder,
		Category:         category,
		OriginalPrice:    original,
		OfferPrice:       offer,
		Discount:         discount,
		Rating:           rating,
		ReviewCount:      reviews,
		BestSelling:      best,
		Description:      description,
		Images:           []string{},
		Variants:         []Variant{},
		TechnicalDetails: map[string]string{},
	}
}
