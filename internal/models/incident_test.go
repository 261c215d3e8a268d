package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusReported, StatusReported, true},
		{StatusReported, StatusInProgress, true},
		{StatusReported, StatusResolved, false},
		{StatusReported, StatusArchived, false},
		{StatusInProgress, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusArchived, true},
		{StatusInProgress, StatusReported, false},
		{StatusResolved, StatusInProgress, false},
		{StatusResolved, StatusResolved, false},
		{StatusArchived, StatusReported, false},
		{StatusArchived, StatusArchived, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusReported.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusArchived.IsTerminal())
}

func TestParseStatusAndSeverity(t *testing.T) {
	s, err := ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("closed")
	assert.ErrorIs(t, err, ErrValidation)

	sev, err := ParseSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, SeverityCritical, sev)

	_, err = ParseSeverity("urgent")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMergeAuthorities(t *testing.T) {
	tests := []struct {
		name     string
		current  []AuthorityID
		added    []AuthorityID
		expected []AuthorityID
	}{
		{"empty", nil, nil, []AuthorityID{}},
		{"add to empty", nil, []AuthorityID{AuthorityFire}, []AuthorityID{AuthorityFire}},
		{"keeps order of first appearance", []AuthorityID{AuthorityPolice}, []AuthorityID{AuthorityFire, AuthorityPolice, AuthorityAmbulance}, []AuthorityID{AuthorityPolice, AuthorityFire, AuthorityAmbulance}},
		{"duplicates in request collapse", nil, []AuthorityID{AuthorityFire, AuthorityFire}, []AuthorityID{AuthorityFire}},
		{"nothing new", []AuthorityID{AuthorityPolice, AuthorityFire}, []AuthorityID{AuthorityFire}, []AuthorityID{AuthorityPolice, AuthorityFire}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeAuthorities(tt.current, tt.added))
		})
	}
}

func TestMergeAuthorities_DoesNotAliasInput(t *testing.T) {
	current := make([]AuthorityID, 1, 4)
	current[0] = AuthorityPolice

	merged := MergeAuthorities(current, []AuthorityID{AuthorityFire})
	merged[0] = AuthorityDisaster

	assert.Equal(t, AuthorityPolice, current[0])
}

func TestIncident_HasNotified(t *testing.T) {
	incident := &Incident{NotifiedAuthorities: []AuthorityID{AuthorityAmbulance}}

	assert.True(t, incident.HasNotified(AuthorityAmbulance))
	assert.False(t, incident.HasNotified(AuthorityPolice))
}

func TestAuthorities_Catalog(t *testing.T) {
	catalog := Authorities()
	require.Len(t, catalog, 4)
	assert.Equal(t, AuthorityPolice, catalog[0].ID)

	// Изменение копии не затрагивает справочник
	catalog[0].Contact = "000"
	fire, err := LookupAuthority(AuthorityFire)
	require.NoError(t, err)
	assert.Equal(t, "110", fire.Contact)
	police, err := LookupAuthority(AuthorityPolice)
	require.NoError(t, err)
	assert.Equal(t, "119", police.Contact)

	_, err = LookupAuthority("coast-guard")
	assert.ErrorIs(t, err, ErrValidation)
}
