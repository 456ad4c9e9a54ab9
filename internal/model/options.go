package model

// Difficulty is the display label of a recipe's difficulty.
type Difficulty string

const (
	DifficultyVeryEasy     Difficulty = "Très Facile"
	DifficultyEasy         Difficulty = "Facile"
	DifficultyIntermediate Difficulty = "Intermédiaire"
	DifficultyMedium       Difficulty = "Moyen"
	DifficultyHard         Difficulty = "Difficile"
	DifficultyVeryHard     Difficulty = "Très Difficile"
	DifficultyExtreme      Difficulty = "Extrême"
	DifficultyNone         Difficulty = "N/A"
)

// Defaults applied to a freshly created recipe.
const (
	DefaultRegion     = "Sud"
	DefaultCategory   = "Plats de Résistance & Ragoûts"
	DefaultDifficulty = DifficultyMedium
	DefaultPrepTime   = "20 min"
	DefaultCookTime   = "30 min"
)

// Regions, Categories and Difficulties are the choices offered by the editor's
// form controls. Values outside these lists are stored as-is.
var (
	Regions = []string{"Sud", "Centre", "Nord", "National"}

	Categories = []string{
		"Pâtes et Céréales (Wɔ̌)",
		"Sauces (Nùsúnnú)",
		"Plats de Résistance & Ragoûts",
		"Protéines & Grillades",
		"Street Food & Snacks (Amuse-bouche)",
		"Boissons & Douceurs",
		"Condiments & Accompagnements",
	}

	Difficulties = []Difficulty{
		DifficultyVeryEasy,
		DifficultyEasy,
		DifficultyIntermediate,
		DifficultyMedium,
		DifficultyHard,
		DifficultyVeryHard,
		DifficultyExtreme,
		DifficultyNone,
	}
)

// Options groups the form choices for API responses.
type Options struct {
	Regions      []string     `json:"regions"`
	Categories   []string     `json:"categories"`
	Difficulties []Difficulty `json:"difficulties"`
}

// FormOptions returns a copy of the editor choices.
func FormOptions() Options {
	return Options{
		Regions:      append([]string(nil), Regions...),
		Categories:   append([]string(nil), Categories...),
		Difficulties: append([]Difficulty(nil), Difficulties...),
	}
}
