package domain

// AnimalType is shared by adoptable species, rescue requests and bookings.
type AnimalType string

const (
	AnimalDog    AnimalType = "dog"
	AnimalCat    AnimalType = "cat"
	AnimalBird   AnimalType = "bird"
	AnimalRabbit AnimalType = "rabbit"
	AnimalOther  AnimalType = "other"
)

var AnimalTypes = []AnimalType{AnimalDog, AnimalCat, AnimalBird, AnimalRabbit, AnimalOther}

func (a AnimalType) Valid() bool {
	for _, v := range AnimalTypes {
		if a == v {
			return true
		}
	}
	return false
}

func (a AnimalType) Label() string {
	switch a {
	case AnimalDog:
		return "Dog"
	case AnimalCat:
		return "Cat"
	case AnimalBird:
		return "Bird"
	case AnimalRabbit:
		return "Rabbit"
	case AnimalOther:
		return "Other"
	}
	return string(a)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

type ProductCategory string

const (
	CategoryFood        ProductCategory = "food"
	CategoryToys        ProductCategory = "toys"
	CategoryClothes     ProductCategory = "clothes"
	CategoryAccessories ProductCategory = "accessories"
	CategoryShelter     ProductCategory = "shelter"
)

var ProductCategories = []ProductCategory{CategoryFood, CategoryToys, CategoryClothes, CategoryAccessories, CategoryShelter}

func (c ProductCategory) Valid() bool {
	for _, v := range ProductCategories {
		if c == v {
			return true
		}
	}
	return false
}

func (c ProductCategory) Label() string {
	switch c {
	case CategoryFood:
		return "Food"
	case CategoryToys:
		return "Toys"
	case CategoryClothes:
		return "Clothes"
	case CategoryAccessories:
		return "Accessories"
	case CategoryShelter:
		return "Shelter Items"
	}
	return string(c)
}

type PlanType string

const (
	PlanLow    PlanType = "low"
	PlanMedium PlanType = "medium"
	PlanHigh   PlanType = "high"
)

func (p PlanType) Valid() bool { return p == PlanLow || p == PlanMedium || p == PlanHigh }

func (p PlanType) Label() string {
	switch p {
	case PlanLow:
		return "Low Hour Plan"
	case PlanMedium:
		return "Medium Hour Plan"
	case PlanHigh:
		return "High Hour Plan"
	}
	return string(p)
}
