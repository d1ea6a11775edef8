package dashboard

import "sort"

// Columns maps each semantic field to the exact label used in the source
// files. Defaults are the labels of the volunteer questionnaire exports.
type Columns struct {
	Identifier string `mapstructure:"identifier" yaml:"identifier" json:"identifier"`

	// registrations
	RegistrationDate      string `mapstructure:"registration_date" yaml:"registration_date" json:"registration_date"`
	RegistrationBirthYear string `mapstructure:"registration_birth_year" yaml:"registration_birth_year" json:"registration_birth_year"`

	// households
	Residence     string `mapstructure:"residence" yaml:"residence" json:"residence"`
	Income        string `mapstructure:"income" yaml:"income" json:"income"`
	HouseholdSize string `mapstructure:"household_size" yaml:"household_size" json:"household_size"`
	Habitat       string `mapstructure:"habitat" yaml:"habitat" json:"habitat"`
	Pets          string `mapstructure:"pets" yaml:"pets" json:"pets"`
	DwellingArea  string `mapstructure:"dwelling_area" yaml:"dwelling_area" json:"dwelling_area"`

	// individuals
	Gender        string `mapstructure:"gender" yaml:"gender" json:"gender"`
	BirthYear     string `mapstructure:"birth_year" yaml:"birth_year" json:"birth_year"`
	Education     string `mapstructure:"education" yaml:"education" json:"education"`
	Employment    string `mapstructure:"employment" yaml:"employment" json:"employment"`
	Weight        string `mapstructure:"weight" yaml:"weight" json:"weight"`
	Height        string `mapstructure:"height" yaml:"height" json:"height"`
	Alcohol       string `mapstructure:"alcohol" yaml:"alcohol" json:"alcohol"`
	Tobacco       string `mapstructure:"tobacco" yaml:"tobacco" json:"tobacco"`
	Cannabis      string `mapstructure:"cannabis" yaml:"cannabis" json:"cannabis"`
	PhysicalScore string `mapstructure:"physical_score" yaml:"physical_score" json:"physical_score"`
	MentalScore   string `mapstructure:"mental_score" yaml:"mental_score" json:"mental_score"`
	HadAccident   string `mapstructure:"had_accident" yaml:"had_accident" json:"had_accident"`

	// accidents
	AccidentType      string `mapstructure:"accident_type" yaml:"accident_type" json:"accident_type"`
	AccidentLocation  string `mapstructure:"accident_location" yaml:"accident_location" json:"accident_location"`
	HospitalDays      string `mapstructure:"hospital_days" yaml:"hospital_days" json:"hospital_days"`
	AccidentBirthYear string `mapstructure:"accident_birth_year" yaml:"accident_birth_year" json:"accident_birth_year"`
}

// DefaultColumns returns the questionnaire labels.
func DefaultColumns() Columns {
	return Columns{
		Identifier: "VOLONTAIRE N°",

		RegistrationDate:      "DATE DE REMPLISSAGE",
		RegistrationBirthYear: "ANNEE DE NAISSANCE",

		Residence:     "Votre lieu de résidence se trouve en :",
		Income:        "Parmi les tranches suivantes, dans laquelle se situe le revenu mensuel net de votre foyer ?",
		HouseholdSize: "Combien de personnes vivent avec vous dans votre foyer ?",
		Habitat:       "Quel est le type d'habitat de votre voisinage ?",
		Pets:          "Avez-vous des animaux domestiques ?",
		DwellingArea:  "Quelle est la surface de votre logement ?",

		Gender:        "GENRE",
		BirthYear:     "ANNEE DE NAISSANCE",
		Education:     "Quel est le diplôme le plus élevé que vous avez obtenu ?",
		Employment:    "Quelle est votre situation actuelle par rapport à l'emploi ?",
		Weight:        "Quel est votre poids actuel en kg ?",
		Height:        "Quelle est votre taille actuelle en cm ?",
		Alcohol:       "A quelle fréquence consommez-vous de l'alcool (Vin, bière, cidre,apéritif, digestif, …) ?",
		Tobacco:       "Combien fumez-vous ou fumiez-vous de cigarettes, cigarillos, cigares ou pipes par jour ?",
		Cannabis:      "Avez-vous consommé du cannabis (haschisch, marijuana, herbe, joint, shit) au cours des 30 derniers jours ?",
		PhysicalScore: "Sur cette échelle de 1 à 10, en moyenne au cours de la semaine passée, comment vous êtes-vous senti sur le plan physique ?",
		MentalScore:   "Sur cette échelle de 1 à 10, en moyenne au cours de la semaine passée, comment vous êtes-vous senti sur le plan mental ?",
		HadAccident:   "Au cours des 12 derniers mois, avez-vous eu un ou des accidents ?",

		AccidentType:      "De quel type d'accident s'agissait-il ?",
		AccidentLocation:  "Où a eu lieu l'accident ?",
		HospitalDays:      "Combien de jours avez-vous été hospitalisé(e) ?",
		AccidentBirthYear: "ANNEE DE NAISSANCE",
	}
}

// WithDefaults fills empty labels from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	def := d.fields()
	for key, dst := range c.fields() {
		if *dst == "" {
			*dst = *def[key]
		}
	}
	return c
}

// Field returns a pointer to the label stored under a config key such as
// "accident_type".
func (c *Columns) Field(key string) (*string, bool) {
	p, ok := c.fields()[key]
	return p, ok
}

// Keys lists the config keys of every semantic field, sorted.
func (c Columns) Keys() []string {
	f := c.fields()
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Columns) fields() map[string]*string {
	return map[string]*string{
		"identifier":              &c.Identifier,
		"registration_date":       &c.RegistrationDate,
		"registration_birth_year": &c.RegistrationBirthYear,
		"residence":               &c.Residence,
		"income":                  &c.Income,
		"household_size":          &c.HouseholdSize,
		"habitat":                 &c.Habitat,
		"pets":                    &c.Pets,
		"dwelling_area":           &c.DwellingArea,
		"gender":                  &c.Gender,
		"birth_year":              &c.BirthYear,
		"education":               &c.Education,
		"employment":              &c.Employment,
		"weight":                  &c.Weight,
		"height":                  &c.Height,
		"alcohol":                 &c.Alcohol,
		"tobacco":                 &c.Tobacco,
		"cannabis":                &c.Cannabis,
		"physical_score":          &c.PhysicalScore,
		"mental_score":            &c.MentalScore,
		"had_accident":            &c.HadAccident,
		"accident_type":           &c.AccidentType,
		"accident_location":       &c.AccidentLocation,
		"hospital_days":           &c.HospitalDays,
		"accident_birth_year":     &c.AccidentBirthYear,
	}
}

// ForRole lists the config keys read from a dataset role.
func ForRole(role string) []string {
	switch role {
	case RoleRegistrations:
		return []string{"identifier", "registration_date", "registration_birth_year"}
	case RoleHouseholds:
		return []string{"residence", "income", "household_size", "habitat", "pets", "dwelling_area"}
	case RoleIndividuals:
		return []string{"identifier", "gender", "birth_year", "education", "employment", "weight", "height",
			"alcohol", "tobacco", "cannabis", "physical_score", "mental_score", "had_accident"}
	case RoleAccidents:
		return []string{"accident_type", "accident_location", "hospital_days", "accident_birth_year"}
	}
	return nil
}
