package recipe

// Nutrition contains per-serving macro and micronutrient values.
// Every field is a pointer: upstream recipe data is incomplete and a
// missing value is semantically different from zero.
type Nutrition struct {
	Calories *float64
	Protein  *float64 // grams
	Carbs    *float64 // grams
	Fat      *float64 // grams
	Sodium   *float64 // milligrams
	Fiber    *float64 // grams
	Sugar    *float64 // grams
}

// DietType represents a dietary pattern a recipe can be labeled with.
type DietType string

const (
	DietTypeVegetarian  DietType = "vegetarian"
	DietTypeVegan       DietType = "vegan"
	DietTypePescatarian DietType = "pescatarian"
	DietTypeKeto        DietType = "keto"
	DietTypePaleo       DietType = "paleo"
	DietTypeGlutenFree  DietType = "gluten-free"
	DietTypeDairyFree   DietType = "dairy-free"
)

// Float64Ptr is a small helper for building optional nutrition values.
func Float64Ptr(v float64) *float64 {
	return &v
}
