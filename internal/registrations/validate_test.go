package registrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRankingComplete(t *testing.T) {
	groups := []int64{10, 11, 12}

	err := ValidateRanking(groups, []Preference{
		{GroupID: 12, Priority: 1},
		{GroupID: 10, Priority: 2},
		{GroupID: 11, Priority: 3},
	})
	assert.NoError(t, err, "order of preferences does not matter")
}

func TestValidateRankingEmpty(t *testing.T) {
	err := ValidateRanking([]int64{10, 11}, nil)
	assert.ErrorIs(t, err, ErrEmptyRanking)

	err = ValidateRanking([]int64{10, 11}, []Preference{})
	assert.ErrorIs(t, err, ErrEmptyRanking)
}

func TestValidateRankingMissingGroup(t *testing.T) {
	groups := []int64{10, 11, 12}

	err := ValidateRanking(groups, []Preference{
		{GroupID: 10, Priority: 1},
		{GroupID: 11, Priority: 2},
	})
	assert.ErrorIs(t, err, ErrIncompleteRanking)
}

func TestValidateRankingForeignGroup(t *testing.T) {
	groups := []int64{10, 11}

	err := ValidateRanking(groups, []Preference{
		{GroupID: 10, Priority: 1},
		{GroupID: 99, Priority: 2},
	})
	assert.ErrorIs(t, err, ErrIncompleteRanking)
}

func TestValidateRankingSuperset(t *testing.T) {
	groups := []int64{10, 11}

	err := ValidateRanking(groups, []Preference{
		{GroupID: 10, Priority: 1},
		{GroupID: 11, Priority: 2},
		{GroupID: 12, Priority: 3},
	})
	assert.ErrorIs(t, err, ErrIncompleteRanking)
}

func TestValidateRankingDuplicateGroup(t *testing.T) {
	groups := []int64{10, 11}

	err := ValidateRanking(groups, []Preference{
		{GroupID: 10, Priority: 1},
		{GroupID: 10, Priority: 2},
	})
	assert.ErrorIs(t, err, ErrIncompleteRanking)
}

func TestValidateRankingSingleGroupCampaign(t *testing.T) {
	assert.NoError(t, ValidateRanking([]int64{5}, []Preference{{GroupID: 5, Priority: 1}}))
	assert.ErrorIs(t, ValidateRanking([]int64{5}, []Preference{{GroupID: 6, Priority: 1}}), ErrIncompleteRanking)
}
