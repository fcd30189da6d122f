package qualification

import "slices"

// Field identifies one answer of the qualification questionnaire
type Field string

// Questionnaire fields
const (
	FieldBabyAge          Field = "babyAge"
	FieldRelationDuration Field = "relationDuration"
	FieldRelationStatus   Field = "relationStatus"
	FieldMainChallenges   Field = "mainChallenges"
	FieldUrgencyLevel     Field = "urgencyLevel"
	FieldMotivation       Field = "motivation"
)

// Option is one selectable answer
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is a closed vocabulary for one field
type Question struct {
	Field   Field    `json:"field"`
	Prompt  string   `json:"prompt"`
	Multi   bool     `json:"multi"`
	Options []Option `json:"options"`
}

var questions = []Question{
	{
		Field:  FieldBabyAge,
		Prompt: "Quel âge a votre bébé ?",
		Options: []Option{
			{"Moins de 3 mois", "Moins de 3 mois"},
			{"3-6 mois", "3-6 mois"},
			{"6-12 mois", "6-12 mois"},
			{"Plus de 12 mois", "Plus de 12 mois"},
		},
	},
	{
		Field:  FieldRelationDuration,
		Prompt: "Depuis combien de temps êtes-vous en couple ?",
		Options: []Option{
			{"Moins de 2 ans", "Moins de 2 ans"},
			{"2-5 ans", "2-5 ans"},
			{"5-10 ans", "5-10 ans"},
			{"Plus de 10 ans", "Plus de 10 ans"},
		},
	},
	{
		Field:  FieldRelationStatus,
		Prompt: "Comment décririez-vous votre relation depuis l'arrivée de bébé ?",
		Options: []Option{
			{"disputes", `😫 "On se dispute tout le temps"`},
			{"tendu", `😔 "C'est tendu mais on s'en sort"`},
			{"ponctuel", `😐 "Quelques difficultés ponctuelles"`},
			{"bien", `🙂 "Ça va plutôt bien"`},
		},
	},
	{
		Field:  FieldMainChallenges,
		Prompt: "Qu'est-ce qui vous pose le plus de difficultés ?",
		Multi:  true,
		Options: []Option{
			{"sommeil", "💤 Le manque de sommeil nous rend irritables"},
			{"communication", "🗣️ On ne communique plus comme avant"},
			{"repartition", "⚖️ Répartition inégale des tâches"},
			{"identite", "😢 Je ne me reconnais plus"},
			{"routine", "🔄 Routine trop lourde, pas de temps pour nous"},
			{"complicite", "💔 On a perdu notre complicité"},
		},
	},
	{
		Field:  FieldUrgencyLevel,
		Prompt: "Si rien ne change, que craignez-vous le plus ?",
		Options: []Option{
			{"separation", `🚨 "Qu'on finisse par se séparer"`},
			{"empire", `😰 "Que ça empire encore"`},
			{"routine", `😕 "De rester dans cette routine"`},
			{"pas-inquietude", `🤷 "Pas d'inquiétude particulière"`},
		},
	},
	{
		Field:  FieldMotivation,
		Prompt: "Dans 3 mois, votre rêve ce serait ?",
		Options: []Option{
			{"complicite", `💕 "Retrouver notre complicité d'avant"`},
			{"equipe", `🤝 "Faire équipe au lieu de se disputer"`},
			{"serenite", `😌 "Être plus sereins au quotidien"`},
			{"famille", `👨‍👩‍👧 "Profiter vraiment de notre famille"`},
		},
	},
}

// Lookup returns the question for field
func Lookup(field Field) (Question, bool) {
	for _, q := range questions {
		if q.Field == field {
			q.Options = slices.Clone(q.Options)
			return q, true
		}
	}
	return Question{}, false
}

// Values returns the allowed values for field
func Values(field Field) []string {
	q, ok := Lookup(field)
	if !ok {
		return nil
	}
	values := make([]string, len(q.Options))
	for i, o := range q.Options {
		values[i] = o.Value
	}
	return values
}

// IsValid reports whether value belongs to field's vocabulary
func IsValid(field Field, value string) bool {
	return slices.Contains(Values(field), value)
}

// Label returns the display label for value, or value itself when unknown
func Label(field Field, value string) string {
	q, ok := Lookup(field)
	if !ok {
		return value
	}
	for _, o := range q.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
