package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sleepharmony/landing/pkg/client"
)

func TestQualificationRowShowsLabels(t *testing.T) {
	row := qualificationRow(&client.Qualification{
		BabyAge:          "3-6 mois",
		RelationDuration: "2-5 ans",
		RelationStatus:   "tendu",
		MainChallenges:   []string{"sommeil"},
		UrgencyLevel:     "empire",
		Motivation:       "equipe",
		CreatedAt:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})

	assert.Len(t, row, 7)
	assert.Equal(t, "3-6 mois", row[1])
	assert.Equal(t, "2-5 ans", row[2])
	assert.Equal(t, `😔 "C'est tendu mais on s'en s...`, row[3])
	assert.Equal(t, "💤 Le manque de sommeil nous rend irritables", row[4])
	assert.Equal(t, `😰 "Que ça empire encore"`, row[5])
	assert.Equal(t, `🤝 "Faire équipe au lieu de se...`, row[6])
}

func TestQualificationRowKeepsUnknownValues(t *testing.T) {
	row := qualificationRow(&client.Qualification{
		BabyAge:        "",
		RelationStatus: "legacy-value",
		MainChallenges: []string{},
	})

	assert.Equal(t, "", row[1])
	assert.Equal(t, "legacy-value", row[3])
	assert.Equal(t, "", row[4])
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "équipe", truncate("équipe", 6))
	assert.Equal(t, "éq...", truncate("équipes", 5))
}
