package load

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/adminkit"
	"github.com/syssam/adminkit/schema"
)

const orgYAML = `
Organization:
  label: Organisation
  displayFields: [name]
  fields:
    id: {type: integer, isPrimary: true}
    name: {type: text}
    website: {type: text, renderer: url}
    createdAt: {type: datetime}
OrganizationPerson:
  fields:
    id: {type: integer, isPrimary: true}
    orgId: {type: integer, relation: Organization, arrayName: member}
    role: {type: text}
    zeta: {type: text}
    alpha: {type: text}
Empty:
  fields: {}
Orphan:
  label: no fields here
`

const orgJSON = `{
  "Organization": {
    "displayFields": ["name"],
    "fields": {
      "id": {"type": "integer", "isPrimary": true},
      "name": {"type": "text"}
    }
  },
  "OrganizationPerson": {
    "fields": {
      "id": {"type": "integer", "isPrimary": true},
      "orgId": {"type": "integer", "relation": "Organization", "arrayName": "member", "foreignKey": "id"}
    }
  }
}`

func fieldNames(t *schema.Table) []string {
	var names []string
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	return names
}

func TestParseYAML(t *testing.T) {
	s, err := Parse([]byte(orgYAML))
	require.NoError(t, err)
	require.Equal(t, []string{"Organization", "OrganizationPerson", "Empty", "Orphan"}, s.Names())

	org, _ := s.Table("Organization")
	assert.Equal(t, "Organisation", org.Label)
	assert.Equal(t, []string{"name"}, org.DisplayFields)
	assert.Equal(t, []string{"id", "name", "website", "createdAt"}, fieldNames(org))
	website, _ := org.Field("website")
	assert.Equal(t, schema.RendererURL, website.Renderer)
	assert.True(t, org.PrimaryKey() != nil)

	person, _ := s.Table("OrganizationPerson")
	assert.Equal(t, []string{"id", "orgId", "role", "zeta", "alpha"}, fieldNames(person))
	orgID, _ := person.Field("orgId")
	assert.Equal(t, "Organization", orgID.Relation)
	assert.Equal(t, "member", orgID.ArrayName)

	empty, _ := s.Table("Empty")
	assert.True(t, empty.HasFields())
	assert.Empty(t, empty.Fields)

	orphan, _ := s.Table("Orphan")
	assert.False(t, orphan.HasFields())
}

func TestParseJSON(t *testing.T) {
	s, err := Parse([]byte(orgJSON))
	require.NoError(t, err)
	require.Equal(t, []string{"Organization", "OrganizationPerson"}, s.Names())
	person, _ := s.Table("OrganizationPerson")
	assert.Equal(t, []string{"id", "orgId"}, fieldNames(person))
	orgID, _ := person.Field("orgId")
	assert.Equal(t, "id", orgID.ForeignKey)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("- just\n- a list\n"))
	assert.ErrorContains(t, err, "top level must be a mapping")

	_, err = Parse([]byte("Album:\n  fields: [a, b]\n"))
	assert.ErrorContains(t, err, "fields must be a mapping")

	_, err = Parse([]byte("Album:\n  fields:\n    title: {renderer: url}\n"))
	assert.True(t, errors.Is(err, adminkit.ErrSchemaIntegrity))

	_, err = Parse([]byte("Album:\n  fields:\n    \"#note\": {type: text}\n"))
	assert.True(t, adminkit.IsSchemaIntegrity(err))
	assert.ErrorContains(t, err, "template key")

	_, err = Parse([]byte("Album: {\n"))
	assert.ErrorContains(t, err, "parse schema")
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Names())
}

func TestFileTestdata(t *testing.T) {
	fromYAML, err := File(filepath.Join("testdata", "music.yaml"))
	require.NoError(t, err)
	fromJSON, err := File(filepath.Join("testdata", "music.json"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Artist", "Album", "Track"}, fromYAML.Names())
	assert.Equal(t, fromYAML.Fingerprint(), fromJSON.Fingerprint())

	album, ok := fromJSON.Table("Album")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "title", "cover", "artistId", "releasedAt"}, fieldNames(album))
	artistID, _ := album.Field("artistId")
	assert.Equal(t, "performer", artistID.As)
	assert.Equal(t, "albums", artistID.ArrayName)
}

func TestFileFingerprintStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orgYAML), 0o644))

	a, err := File(path)
	require.NoError(t, err)
	b, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	_, err = File(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "load schema")
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orgJSON), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads := make(chan *schema.Schema, 64)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(s *schema.Schema, err error) {
			if err != nil {
				return
			}
			select {
			case reloads <- s:
			default:
			}
		})
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(orgYAML), 0o644))

	timeout := time.After(5 * time.Second)
	for seen := false; !seen; {
		select {
		case s := <-reloads:
			// A write may be observed before the file is complete.
			_, seen = s.Table("Orphan")
			if seen {
				assert.Len(t, s.Names(), 4)
			}
		case <-timeout:
			t.Fatal("no reload observed")
		}
	}
	cancel()
	require.NoError(t, <-done)
}
