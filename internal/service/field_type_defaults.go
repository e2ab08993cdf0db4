package service

import (
	"project-field-api/internal/domain"
)

// systemFieldType describes one built-in catalogue entry
type systemFieldType struct {
	Name        string
	Description string
	Icon        string
	Spec        domain.ValidationSpec
}

func float64Ptr(v float64) *float64 { return &v }

// getSystemFieldTypes returns the built-in field types seeded on start-up
func getSystemFieldTypes() []systemFieldType {
	return []systemFieldType{
		{
			Name:        "Text",
			Description: "Free-form text",
			Icon:        "text",
			Spec:        domain.ValidationSpec{Kind: domain.KindText},
		},
		{
			Name:        "Number",
			Description: "Numeric value",
			Icon:        "hash",
			Spec:        domain.ValidationSpec{Kind: domain.KindNumber},
		},
		{
			Name:        "Date",
			Description: "Calendar date (YYYY-MM-DD)",
			Icon:        "calendar",
			Spec:        domain.ValidationSpec{Kind: domain.KindDate},
		},
		{
			Name:        "Boolean",
			Description: "Yes / no flag",
			Icon:        "toggle",
			Spec:        domain.ValidationSpec{Kind: domain.KindBoolean},
		},
		{
			Name:        "Select",
			Description: "One value from a fixed list",
			Icon:        "list",
			Spec:        domain.ValidationSpec{Kind: domain.KindSelect, Required: true},
		},
		{
			Name:        "Multi-Select",
			Description: "Any number of values from a fixed list",
			Icon:        "list-checks",
			Spec:        domain.ValidationSpec{Kind: domain.KindMultiSelect, Required: true},
		},
		{
			Name:        "Currency",
			Description: "Monetary amount",
			Icon:        "dollar",
			Spec:        domain.ValidationSpec{Kind: domain.KindCurrency},
		},
		{
			Name:        "Percentage",
			Description: "Share between 0 and 100",
			Icon:        "percent",
			Spec:        domain.ValidationSpec{Kind: domain.KindPercentage, Min: float64Ptr(0), Max: float64Ptr(100)},
		},
		{
			Name:        "Email",
			Description: "Email address",
			Icon:        "mail",
			Spec:        domain.ValidationSpec{Kind: domain.KindEmail},
		},
		{
			Name:        "URL",
			Description: "Web address",
			Icon:        "link",
			Spec:        domain.ValidationSpec{Kind: domain.KindURL},
		},
	}
}
