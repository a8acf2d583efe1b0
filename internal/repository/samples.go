package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var sampleFrames = []int{10, 25, 40, 55, 70, 85}

// SampleProducts returns the demo catalog loaded from the admin screen.
func SampleProducts() []ProductInput {
	samples := []ProductInput{
		{
			Name:        "Royal Sapphire Abaya",
			Price:       decimal.NewFromInt(4500),
			Category:    "Premium",
			Description: "Royal blue crepe abaya with intricate gold embroidery, made for special occasions.",
			Sizes:       []string{"S", "M", "L", "XL"},
		},
		{
			Name:        "Golden Duchess Kaftan",
			Price:       decimal.NewFromInt(6200),
			Category:    "Bridal",
			Description: "Kaftan with gold thread work and delicate beading for brides and celebrations.",
			Sizes:       []string{"M", "L", "XL"},
		},
		{
			Name:        "Midnight Elegance Abaya",
			Price:       decimal.NewFromInt(3800),
			Category:    "Embroidered",
			Description: "Black abaya with subtle gold trim and a modern cut for everyday wear.",
			Sizes:       []string{"S", "M", "L", "XL", "XXL"},
		},
		{
			Name:        "Pearl Crescent Jalabiya",
			Price:       decimal.NewFromInt(5100),
			Category:    "Party Wear",
			Description: "Ivory and pearl toned jalabiya with crescent motif embroidery.",
			Sizes:       []string{"S", "M", "L"},
		},
		{
			Name:        "Desert Rose Collection",
			Price:       decimal.NewFromInt(3200),
			Category:    "Casual",
			Description: "Lightweight dusty rose abaya with minimal gold accents.",
			Sizes:       []string{"S", "M", "L", "XL"},
		},
		{
			Name:        "Imperial Navy Masterpiece",
			Price:       decimal.NewFromInt(7500),
			Category:    "Premium",
			Description: "Deep navy abaya with hand embroidered gold patterns.",
			Sizes:       []string{"M", "L", "XL"},
		},
	}
	for i := range samples {
		samples[i].Image = fmt.Sprintf("images/ezgif-frame-%03d.jpg", sampleFrames[i])
	}
	return samples
}
