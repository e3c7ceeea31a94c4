package projection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func album() map[string]any {
	return map[string]any{
		"id":   1,
		"name": "A",
		RelationsKey: map[string]any{
			"tracks": []any{
				map[string]any{"id": 10, "title": "T1"},
				map[string]any{"id": 11, "title": "T2"},
			},
			"artist": map[string]any{
				"id":   7,
				"name": "Band",
				RelationsKey: map[string]any{
					"label": map[string]any{"name": "Indie"},
				},
			},
		},
	}
}

func view(t *testing.T, v any) *View {
	t.Helper()
	pv, ok := Project(v).(*View)
	require.True(t, ok, "expected a view, got %T", Project(v))
	return pv
}

func TestProjectRelationPayload(t *testing.T) {
	v := view(t, album())

	name, ok := v.Get("name")
	require.True(t, ok)
	assert.Equal(t, "A", name)

	tracks, ok := v.Get("tracks")
	require.True(t, ok)
	list, ok := tracks.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	first, ok := list[0].(*View)
	require.True(t, ok)
	title, ok := first.Get("title")
	require.True(t, ok)
	assert.Equal(t, "T1", title)

	assert.Equal(t, []string{"id", "name", "artist", "tracks"}, v.Keys())
	assert.NotContains(t, v.Keys(), RelationsKey)
	assert.False(t, v.Has(RelationsKey))
	assert.True(t, v.Has("tracks"))
	assert.False(t, v.Has("missing"))
}

func TestProjectNested(t *testing.T) {
	v := view(t, album())

	artist, ok := v.Get("artist")
	require.True(t, ok)
	av, ok := artist.(*View)
	require.True(t, ok)

	label, ok := av.Get("label")
	require.True(t, ok)
	name, ok := label.(*View).Get("name")
	require.True(t, ok)
	assert.Equal(t, "Indie", name)
	assert.Equal(t, []string{"id", "name", "label"}, av.Keys())
}

func TestProjectScalarContainer(t *testing.T) {
	rec := map[string]any{
		"id":         1,
		RelationsKey: "none",
		"tracks":     "not a relation",
	}
	v := view(t, rec)

	val, ok := v.Get(RelationsKey)
	require.True(t, ok)
	assert.Equal(t, "none", val)
	assert.True(t, v.Has(RelationsKey))

	tracks, ok := v.Get("tracks")
	require.True(t, ok)
	assert.Equal(t, "not a relation", tracks, "own columns are returned as is")
	assert.Equal(t, []string{"id", RelationsKey, "tracks"}, v.Keys())

	t.Run("numeric scalar", func(t *testing.T) {
		v := view(t, map[string]any{RelationsKey: 0})
		val, ok := v.Get(RelationsKey)
		require.True(t, ok)
		assert.Equal(t, 0, val)
		assert.Equal(t, []string{RelationsKey}, v.Keys())
	})

	t.Run("slice disables traversal", func(t *testing.T) {
		v := view(t, map[string]any{RelationsKey: []any{"a"}})
		assert.True(t, v.Has(RelationsKey))
		assert.Equal(t, []string{RelationsKey}, v.Keys())
	})
}

func TestProjectNilContainer(t *testing.T) {
	v := view(t, map[string]any{"id": 1, RelationsKey: nil})
	assert.False(t, v.Has(RelationsKey))
	assert.Equal(t, []string{"id"}, v.Keys())
}

func TestProjectOwnFieldsWin(t *testing.T) {
	v := view(t, map[string]any{
		"title": "own",
		RelationsKey: map[string]any{
			"title":  "payload",
			"extra":  1,
			"absent": nil,
		},
	})
	val, _ := v.Get("title")
	assert.Equal(t, "own", val)
	assert.Equal(t, []string{"title", "absent", "extra"}, v.Keys())
	assert.Equal(t, 3, v.Len())

	val, ok := v.Get("absent")
	require.True(t, ok)
	assert.Nil(t, val)
}

func TestProjectPassThrough(t *testing.T) {
	assert.Equal(t, 42, Project(42))
	assert.Nil(t, Project(nil))
	assert.Equal(t, "x", Project("x"))

	v := view(t, map[string]any{})
	assert.Same(t, v, Project(v))
	assert.Empty(t, v.Keys())
}

func TestProjectSlices(t *testing.T) {
	out, ok := Project([]map[string]any{{"id": 1}, {"id": 2}}).([]any)
	require.True(t, ok)
	require.Len(t, out, 2)
	id, _ := out[1].(*View).Get("id")
	assert.Equal(t, 2, id)

	mixed, ok := Project([]any{map[string]any{"id": 1}, 3, nil}).([]any)
	require.True(t, ok)
	assert.IsType(t, &View{}, mixed[0])
	assert.Equal(t, 3, mixed[1])
	assert.Nil(t, mixed[2])
}

func TestProjectDoesNotMutate(t *testing.T) {
	rec := album()
	v := view(t, rec)
	_, _ = v.Get("tracks")
	_ = v.Keys()

	assert.Equal(t, album(), rec)
	assert.Len(t, rec, 3)

	v.Record()["name"] = "B"
	name, _ := v.Get("name")
	assert.Equal(t, "B", name, "the view reads the wrapped record, not a copy")
}

func TestProjectLazy(t *testing.T) {
	payload := map[string]any{"artist": map[string]any{"name": "Old"}}
	v := view(t, map[string]any{RelationsKey: payload})

	payload["artist"] = map[string]any{"name": "New"}
	artist, ok := v.Get("artist")
	require.True(t, ok)
	name, _ := artist.(*View).Get("name")
	assert.Equal(t, "New", name)
}

func TestProjectCycle(t *testing.T) {
	a := map[string]any{"name": "a"}
	b := map[string]any{"name": "b", RelationsKey: map[string]any{"peer": a}}
	a[RelationsKey] = map[string]any{"peer": b}

	cur := view(t, a)
	for i := 0; i < 10; i++ {
		next, ok := cur.Get("peer")
		require.True(t, ok)
		cur = next.(*View)
	}
	name, _ := cur.Get("name")
	assert.Equal(t, "a", name)
}

func TestWithContainerKey(t *testing.T) {
	p := New(WithContainerKey("_rel"))
	assert.Equal(t, "_rel", p.ContainerKey())

	v, ok := p.Project(map[string]any{
		"relations": "column",
		"_rel":      map[string]any{"tags": []any{}},
	}).(*View)
	require.True(t, ok)
	assert.Equal(t, []string{"relations", "tags"}, v.Keys())

	tags, ok := v.Get("tags")
	require.True(t, ok)
	assert.Equal(t, []any{}, tags)

	assert.Equal(t, RelationsKey, New(WithContainerKey("")).ContainerKey())
}

func TestViewConcurrentReads(t *testing.T) {
	v := view(t, album())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = v.Keys()
				_, _ = v.Get("artist")
			}
		}()
	}
	wg.Wait()
}
