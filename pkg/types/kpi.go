package types

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// KPI categories.
const (
	CategoryFinancial  = "Financial"
	CategoryMarketing  = "Marketing"
	CategorySales      = "Sales"
	CategoryOperations = "Operations"
	CategoryCustomer   = "Customer"
	CategoryHR         = "HR"
	CategoryProduct    = "Product"
	CategoryCustom     = "Custom"
)

// Categories lists the KPI categories in display order.
var Categories = []string{
	CategoryFinancial,
	CategoryMarketing,
	CategorySales,
	CategoryOperations,
	CategoryCustomer,
	CategoryHR,
	CategoryProduct,
	CategoryCustom,
}

// Colors is the display palette a KPI color is chosen from.
var Colors = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // yellow
	"#EF4444", // red
	"#8B5CF6", // purple
	"#06B6D4", // cyan
	"#F97316", // orange
	"#84CC16", // lime
}

// KPI is a named metric tracked over time.
type KPI struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Value       float64   `json:"value"`            // Value of the most recent entry; see Config.ValueCache.
	Target      *float64  `json:"target,omitempty"` // Nil when no goal is set.
	Unit        string    `json:"unit"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// KPIFormData is the creation request for a KPI. The repository assigns the
// id and timestamps.
type KPIFormData struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Value       float64  `json:"value"`
	Target      *float64 `json:"target,omitempty"`
	Unit        string   `json:"unit"`
	Category    string   `json:"category" validate:"required,kpicategory"`
	Color       string   `json:"color" validate:"required,kpicolor"`
}

// KPIPatch is a partial update. Nil fields keep their stored value. The id
// and creation time are not part of the patch and cannot change.
type KPIPatch struct {
	Name        *string
	Description *string
	Value       *float64
	Target      *float64
	// ClearTarget removes the goal. It takes precedence over Target.
	ClearTarget bool
	Unit        *string
	Category    *string
	Color       *string
}

// Apply merges the non-nil fields of p over k.
func (p KPIPatch) Apply(k *KPI) {
	if p.Name != nil {
		k.Name = *p.Name
	}
	if p.Description != nil {
		k.Description = *p.Description
	}
	if p.Value != nil {
		k.Value = *p.Value
	}
	if p.ClearTarget {
		k.Target = nil
	} else if p.Target != nil {
		t := *p.Target
		k.Target = &t
	}
	if p.Unit != nil {
		k.Unit = *p.Unit
	}
	if p.Category != nil {
		k.Category = *p.Category
	}
	if p.Color != nil {
		k.Color = *p.Color
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p KPIPatch) IsEmpty() bool {
	return p == KPIPatch{}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("kpicategory", func(fl validator.FieldLevel) bool {
			return IsCategory(fl.Field().String())
		})
		_ = validate.RegisterValidation("kpicolor", func(fl validator.FieldLevel) bool {
			return IsColor(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the form before it is handed to KPIRepository.Create.
// Returns ErrInvalidName, ErrInvalidCategory or ErrInvalidColor for the first
// failing field. Repositories do not call Validate.
func (f KPIFormData) Validate() error {
	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Name":
		return ErrInvalidName
	case "Category":
		return ErrInvalidCategory
	default:
		return ErrInvalidColor
	}
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// IsColor reports whether color is one of Colors.
func IsColor(color string) bool {
	for _, c := range Colors {
		if c == color {
			return true
		}
	}
	return false
}
