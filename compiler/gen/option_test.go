package gen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("generated, do not edit")(c)

		require.NoError(t, err)
		assert.Equal(t, "generated, do not edit", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})

	t.Run("delimiters are rejected", func(t *testing.T) {
		for _, header := range []string{"{{x", "x}}"} {
			c := &Config{}
			err := WithHeader(header)(c)

			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			assert.Empty(t, c.Header)
		}
	})
}

func TestWithDepth(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"deep", 8, false},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithDepth(tt.depth)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.depth, c.Depth)
		})
	}
}

func TestWithTarget(t *testing.T) {
	t.Run("sets target", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithTarget("/tmp/out")(c))
		assert.Equal(t, "/tmp/out", c.Target)
	})

	t.Run("empty target fails", func(t *testing.T) {
		err := WithTarget("")(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(3)(c))
	assert.Equal(t, 3, c.Workers)

	for _, n := range []int{0, -2} {
		err := WithWorkers(n)(c)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	}
	assert.Equal(t, 3, c.Workers)
}

func TestWithSystemFields(t *testing.T) {
	names := []string{"tenantId"}
	c := &Config{}
	require.NoError(t, WithSystemFields(names...)(c))
	names[0] = "changed"
	assert.Equal(t, []string{"tenantId"}, c.SystemFields, "the option keeps its own copy")

	require.NoError(t, WithSystemFields()(c))
	assert.Empty(t, c.SystemFields)
}

func TestWithEmptyText(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithEmptyText("None yet")(c))
	assert.Equal(t, "None yet", c.EmptyText)
}

func TestConfigApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithDepth(-1), WithTarget("out"))
		require.Error(t, err)
		assert.Empty(t, c.Target)
	})

	t.Run("all collects every error", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithDepth(-1), WithTarget("out"), WithWorkers(0))
		require.Error(t, err)
		assert.Equal(t, "out", c.Target)
		assert.Contains(t, err.Error(), "Depth")
		assert.Contains(t, err.Error(), "Workers")
	})

	t.Run("all without errors", func(t *testing.T) {
		c := &Config{}
		assert.NoError(t, c.ApplyAll(WithDepth(2)))
	})
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultDepth, c.Depth)
	assert.Equal(t, "templates", c.Target)
	assert.Equal(t, "No entries", c.EmptyText)
	assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
	assert.Equal(t, DefaultSystemFields, c.SystemFields)

	c.SystemFields[0] = "changed"
	assert.Equal(t, "owner", DefaultSystemFields[0], "defaults are copied")

	c, err = NewConfig(WithDepth(3), WithTarget("out"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Depth)
	assert.Equal(t, "out", c.Target)

	_, err = NewConfig(WithDepth(-1))
	assert.Error(t, err)
}

func TestMustNewConfig(t *testing.T) {
	assert.NotPanics(t, func() { MustNewConfig(WithDepth(0)) })
	assert.Panics(t, func() { MustNewConfig(WithWorkers(0)) })
}

func TestParseContext(t *testing.T) {
	tests := []struct {
		in      string
		want    Context
		wantErr bool
	}{
		{"", ContextSection, false},
		{"section", ContextSection, false},
		{"page", ContextPage, false},
		{"Page", "", true},
		{"modal", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseContext(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			assert.True(t, c.Valid())
		})
	}
	assert.False(t, Context("").Valid())
}
