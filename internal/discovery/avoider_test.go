package discovery

import (
	"errors"
	"testing"

	"github.com/dusk-indust/mdagg/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	homeRA = "http://ukfederation.org.uk"
	dkRA   = "https://www.wayf.dk"
	seRA   = "http://www.swamid.se/"
)

func newTestAvoider(t *testing.T) *Avoider {
	t.Helper()
	a, err := NewAvoider(AvoiderConfig{
		HomeAuthority:         homeRA,
		AuthorityDisplayNames: map[string]string{dkRA: "DK"},
	})
	require.NoError(t, err)
	return a
}

func infoMessages(r *entity.Record) []string {
	var msgs []string
	for _, s := range r.Statuses.Of(entity.StatusInfo) {
		msgs = append(msgs, s.Message)
	}
	return msgs
}

func TestAvoid_RenamesForeignWithMappedCode(t *testing.T) {
	home := idp("https://idp.ram.ac.uk", homeRA, "Royal Academy of Music")
	foreign := idp("https://idp.dk.example", dkRA, "Royal Academy of Music", "Det Kongelige")

	renames, err := newTestAvoider(t).Avoid([]*entity.Record{home, foreign})
	require.NoError(t, err)

	assert.Equal(t, []string{"[DK] Royal Academy of Music", "Det Kongelige"}, foreign.NameTexts())
	assert.Equal(t, []string{"discovery name changed to '[DK] Royal Academy of Music'"}, infoMessages(foreign))
	assert.Equal(t, AvoiderComponent, foreign.Statuses.All()[0].Component)

	require.Len(t, renames, 1)
	assert.Same(t, foreign, renames[0].Record)
	assert.Equal(t, 0, renames[0].Index)
	assert.Equal(t, "Royal Academy of Music", renames[0].From)
	assert.Equal(t, "[DK] Royal Academy of Music", renames[0].To)
}

func TestAvoid_DefaultCodeForUnmappedAuthority(t *testing.T) {
	home := idp("H", homeRA, "Royal Academy of Music")
	foreign := idp("F", seRA, "  Royal Academy of Music ")

	_, err := newTestAvoider(t).Avoid([]*entity.Record{home, foreign})
	require.NoError(t, err)

	assert.Equal(t, []string{"[??] Royal Academy of Music"}, foreign.NameTexts())
}

func TestAvoid_CustomFormatAndDefault(t *testing.T) {
	a, err := NewAvoider(AvoiderConfig{
		HomeAuthority:      homeRA,
		DefaultDisplayName: "INTL",
		RenameFormat:       "{0} ({1})",
	})
	require.NoError(t, err)

	home := idp("H", homeRA, "Example")
	foreign := idp("F", seRA, "Example")
	_, err = a.Avoid([]*entity.Record{home, foreign})
	require.NoError(t, err)

	assert.Equal(t, []string{"Example (INTL)"}, foreign.NameTexts())
}

func TestAvoid_CaseSensitiveMatch(t *testing.T) {
	home := idp("H", homeRA, "Example")
	foreign := idp("F", dkRA, "EXAMPLE")

	renames, err := newTestAvoider(t).Avoid([]*entity.Record{home, foreign})
	require.NoError(t, err)

	assert.Empty(t, renames)
	assert.Equal(t, []string{"EXAMPLE"}, foreign.NameTexts())
	assert.Zero(t, foreign.Statuses.Len())
}

func TestAvoid_HomeImmutable(t *testing.T) {
	home1 := idp("H1", homeRA, " Alpha ", "Beta")
	home2 := idp("H2", homeRA, "Gamma")
	foreign := idp("F", dkRA, "Alpha", "Gamma", "Beta")

	_, err := newTestAvoider(t).Avoid([]*entity.Record{foreign, home1, home2})
	require.NoError(t, err)

	assert.Equal(t, []string{" Alpha ", "Beta"}, home1.NameTexts())
	assert.Equal(t, []string{"Gamma"}, home2.NameTexts())
	assert.Zero(t, home1.Statuses.Len())
	assert.Zero(t, home2.Statuses.Len())
	assert.Equal(t, []string{"[DK] Alpha", "[DK] Gamma", "[DK] Beta"}, foreign.NameTexts())
	assert.Len(t, infoMessages(foreign), 3)
}

func TestAvoid_FatalAbortLeavesBatchUntouched(t *testing.T) {
	home1 := idp("H1", homeRA, "Royal Academy of Music")
	home2 := idp("H2", homeRA, "Royal Academy of Music ")
	foreign := idp("F", dkRA, "Royal Academy of Music")
	noRA := idp("N", "", "Something")

	renames, err := newTestAvoider(t).Avoid([]*entity.Record{home1, foreign, noRA, home2})
	require.Error(t, err)
	assert.Nil(t, renames)

	assert.True(t, errors.Is(err, ErrDuplicateHomeName))
	var dup *DuplicateHomeNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Royal Academy of Music", dup.Name)
	assert.Equal(t, homeRA, dup.Authority)
	assert.Equal(t, "H2", dup.EntityID)
	assert.Contains(t, err.Error(), "Royal Academy of Music")
	assert.Contains(t, err.Error(), homeRA)

	for _, r := range []*entity.Record{home1, home2, foreign, noRA} {
		assert.Zero(t, r.Statuses.Len(), "record %s must carry no statuses", r.ID)
	}
	assert.Equal(t, []string{"Royal Academy of Music"}, foreign.NameTexts())
	assert.Equal(t, []string{"Royal Academy of Music "}, home2.NameTexts())
}

func TestAvoid_DuplicateWithinOneHomeRecordIsFatal(t *testing.T) {
	home := idp("H", homeRA, "Example", " Example")

	_, err := newTestAvoider(t).Avoid([]*entity.Record{home})
	require.ErrorIs(t, err, ErrDuplicateHomeName)
}

func TestAvoid_MissingAuthority(t *testing.T) {
	home := idp("H", homeRA, "Example")
	orphan := idp("N", "", "Example")

	renames, err := newTestAvoider(t).Avoid([]*entity.Record{home, orphan})
	require.NoError(t, err)

	assert.Empty(t, renames)
	assert.Equal(t, []string{"Example"}, orphan.NameTexts())
	require.Equal(t, 1, orphan.Statuses.Count(entity.StatusError))
	assert.Equal(t, "identity provider has no registration authority", orphan.Statuses.Of(entity.StatusError)[0].Message)
}

func TestAvoid_IgnoresNonIdentityProviders(t *testing.T) {
	home := idp("H", homeRA, "Example")
	other := sp("S", dkRA, "Example")
	homeSP := sp("HS", homeRA, "Example")

	renames, err := newTestAvoider(t).Avoid([]*entity.Record{home, other, homeSP})
	require.NoError(t, err)

	assert.Empty(t, renames)
	assert.Equal(t, []string{"Example"}, other.NameTexts())
}

func TestAvoid_Idempotent(t *testing.T) {
	a := newTestAvoider(t)
	home := idp("H", homeRA, "Example")
	foreign := idp("F", dkRA, "Example")
	batch := []*entity.Record{home, foreign}

	_, err := a.Avoid(batch)
	require.NoError(t, err)
	renames, err := a.Avoid(batch)
	require.NoError(t, err)

	assert.Empty(t, renames, "a renamed name no longer matches a home name")
	assert.Equal(t, []string{"[DK] Example"}, foreign.NameTexts())
}

func TestNewAvoider_Defaults(t *testing.T) {
	a, err := NewAvoider(AvoiderConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultHomeAuthority, a.HomeAuthority())
	assert.Equal(t, AvoiderComponent, a.Component())
	assert.Equal(t, DefaultRenameFormat, a.template.String())
	assert.Equal(t, DefaultDisplayName, a.code("urn:unknown"))
}

func TestNewAvoider_BadFormat(t *testing.T) {
	_, err := NewAvoider(AvoiderConfig{RenameFormat: "[{2}] {0}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{2}")
}

func TestNewAvoider_CopiesAuthorityMap(t *testing.T) {
	codes := map[string]string{dkRA: "DK"}
	a, err := NewAvoider(AvoiderConfig{AuthorityDisplayNames: codes})
	require.NoError(t, err)

	codes[dkRA] = "XX"
	assert.Equal(t, "DK", a.code(dkRA))
}
