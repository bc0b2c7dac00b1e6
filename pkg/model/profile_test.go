package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinAge(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{18, AgeGroupYoungAdult},
		{25, AgeGroupYoungAdult},
		{26, AgeGroupAdult},
		{35, AgeGroupAdult},
		{36, AgeGroupMasters},
		{45, AgeGroupMasters},
		{46, AgeGroupSenior},
		{60, AgeGroupSenior},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BinAge(tt.age), "age %d", tt.age)
	}
}

func TestBinExperience(t *testing.T) {
	tests := []struct {
		years int
		want  string
	}{
		{0, ExperienceNovice},
		{2, ExperienceNovice},
		{3, ExperienceIntermediate},
		{5, ExperienceIntermediate},
		{6, ExperienceAdvanced},
		{9, ExperienceAdvanced},
		{10, ExperienceExpert},
		{25, ExperienceExpert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BinExperience(tt.years), "years %d", tt.years)
	}
}

func TestProfileValidate(t *testing.T) {
	p := AthleteProfile{AthleteID: "ath-1", Age: 28, ExperienceYears: 6, BaselineWeeklyLoad: 300}
	require.NoError(t, p.Validate())

	tests := []struct {
		name   string
		mutate func(*AthleteProfile)
	}{
		{"empty athlete id", func(p *AthleteProfile) { p.AthleteID = "" }},
		{"zero age", func(p *AthleteProfile) { p.Age = 0 }},
		{"negative experience", func(p *AthleteProfile) { p.ExperienceYears = -1 }},
		{"experience exceeds age", func(p *AthleteProfile) { p.ExperienceYears = 20 }},
		{"negative baseline", func(p *AthleteProfile) { p.BaselineWeeklyLoad = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := p
			tt.mutate(&cp)
			assert.Error(t, cp.Validate())
		})
	}
}
