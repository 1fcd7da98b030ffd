package domain

import "fmt"

// Category is the fixed topic tag required on every post.
type Category string

const (
	CategoryKidney    Category = "Kidney"
	CategoryLiver     Category = "Liver"
	CategoryHeart     Category = "Heart"
	CategoryLungs     Category = "Lungs"
	CategoryDiabetes  Category = "Diabetes"
	CategoryCancer    Category = "Cancer"
	CategoryNutrition Category = "Nutrition"
	CategoryFitness   Category = "Fitness"
)

// Categories lists every valid topic tag.
var Categories = []Category{
	CategoryKidney,
	CategoryLiver,
	CategoryHeart,
	CategoryLungs,
	CategoryDiabetes,
	CategoryCancer,
	CategoryNutrition,
	CategoryFitness,
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
