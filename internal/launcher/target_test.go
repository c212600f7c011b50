package launcher

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okFactory(context.Context) (http.Handler, error) {
	return http.NotFoundHandler(), nil
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{in: "main:app", want: Target{Module: "main", Attribute: "app"}},
		{in: " api.v1:router ", want: Target{Module: "api.v1", Attribute: "router"}},
		{in: "main", wantErr: true},
		{in: ":app", wantErr: true},
		{in: "main:", wantErr: true},
		{in: "main:app:extra", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Module+":"+tt.want.Attribute, got.String())
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("main:app", okFactory))
	require.NoError(t, r.Register("admin:app", okFactory))

	t.Run("lookup registered", func(t *testing.T) {
		f, err := r.Lookup(Target{Module: "main", Attribute: "app"})
		require.NoError(t, err)
		assert.NotNil(t, f)
	})

	t.Run("lookup unknown", func(t *testing.T) {
		_, err := r.Lookup(Target{Module: "main", Attribute: "api"})
		require.ErrorIs(t, err, ErrAppNotFound)
		assert.Contains(t, err.Error(), "admin:app, main:app")
	})

	t.Run("duplicate", func(t *testing.T) {
		err := r.Register("main:app", okFactory)
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("invalid name", func(t *testing.T) {
		assert.ErrorIs(t, r.Register("nope", okFactory), ErrInvalidTarget)
	})

	t.Run("nil factory", func(t *testing.T) {
		assert.Error(t, r.Register("other:app", nil))
	})

	assert.Equal(t, []string{"admin:app", "main:app"}, r.Names())
}
