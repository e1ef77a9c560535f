package discovery

import (
	"testing"

	"github.com/dusk-indust/mdagg/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	id        string
	role      entity.Role
	preferred []entity.Name
	legacy    []entity.Name
	authority string
}

func (f *fakeSource) Identifier() string            { return f.id }
func (f *fakeSource) Role() entity.Role             { return f.role }
func (f *fakeSource) PreferredNames() []entity.Name { return f.preferred }
func (f *fakeSource) LegacyNames() []entity.Name    { return f.legacy }

func (f *fakeSource) RegistrationAuthority() (string, bool) {
	return f.authority, f.authority != ""
}

func TestExtract_PrefersDisplayNames(t *testing.T) {
	src := &fakeSource{
		preferred: entity.NewTextNames(" UI Name ", "UI Navn"),
		legacy:    entity.NewTextNames("Org Name"),
	}
	got := Extract(src)
	require.Len(t, got, 2)
	assert.Equal(t, " UI Name ", got[0].Text(), "extraction must not trim")
	assert.Equal(t, "UI Navn", got[1].Text())
}

func TestExtract_FallsBackToLegacy(t *testing.T) {
	src := &fakeSource{legacy: entity.NewTextNames("Org Name", "Org Navn")}
	got := Extract(src)
	require.Len(t, got, 2)
	assert.Equal(t, "Org Name", got[0].Text())
}

func TestExtract_NoSources(t *testing.T) {
	assert.Empty(t, Extract(&fakeSource{}))
}

func TestNewRecord(t *testing.T) {
	src := &fakeSource{
		id:        "https://idp.example.org",
		role:      entity.RoleIdentityProvider,
		preferred: entity.NewTextNames("Example"),
		authority: homeRA,
	}
	r := NewRecord(src)
	assert.Equal(t, "https://idp.example.org", r.ID)
	assert.True(t, r.IsIdentityProvider())
	assert.True(t, r.HasAuthority)
	assert.Equal(t, homeRA, r.RegistrationAuthority)
	assert.Equal(t, []string{"Example"}, r.NameTexts())
	assert.Same(t, src, r.Source)

	// Names are handles: writing through the record writes through the source.
	r.Names[0].SetText("Renamed")
	assert.Equal(t, "Renamed", src.preferred[0].Text())

	records := NewRecords([]entity.Source{src, &fakeSource{id: "other"}})
	require.Len(t, records, 2)
	assert.False(t, records[1].HasAuthority)
}

func TestKeys(t *testing.T) {
	tests := []struct {
		in        string
		detection string
		avoidance string
	}{
		{"Example", "example", "Example"},
		{"  EXAMPLE\t", "example", "EXAMPLE"},
		{"ÉCOLE Normale", "école normale", "ÉCOLE Normale"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.detection, DetectionKey(tt.in))
			assert.Equal(t, tt.avoidance, AvoidanceKey(tt.in))
		})
	}
}
