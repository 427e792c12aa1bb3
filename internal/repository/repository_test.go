package repository

import (
	"context"
	"net/url"
	"testing"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/stretchr/testify/require"
)

func TestConnParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       ConnParams
		missing []string
	}{
		{"all set", ConnParams{Host: "h", User: "u", Password: "p"}, nil},
		{"no host", ConnParams{User: "u", Password: "p"}, []string{"DB_HOST"}},
		{"nothing", ConnParams{}, []string{"DB_HOST", "DB_USER", "DB_PASSWORD"}},
		{"no password", ConnParams{Host: "h", User: "u", Database: "x"}, []string{"DB_PASSWORD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.missing == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, model.ErrMissingConfig)
			for _, m := range tt.missing {
				require.Contains(t, err.Error(), m)
			}
		})
	}
}

func TestConnParams_DSN(t *testing.T) {
	p := ConnParams{Host: "db.local", Port: "5432", User: "admin", Password: "p@ss word", SSLMode: "require"}

	u, err := url.Parse(p.DSN())
	require.NoError(t, err)
	require.Equal(t, "postgres", u.Scheme)
	require.Equal(t, "db.local:5432", u.Host)
	require.Equal(t, "/aprohirdeto", u.Path)
	pass, _ := u.User.Password()
	require.Equal(t, "p@ss word", pass)
	require.Equal(t, "require", u.Query().Get("sslmode"))
	require.Equal(t, "UTF8", u.Query().Get("client_encoding"))
}

func TestConnParams_Masked(t *testing.T) {
	m := ConnParams{Host: "h", Password: "secret"}.Masked()
	require.Equal(t, "***", m["DB_PASSWORD"])
	require.Equal(t, "Not set", m["DB_USER"])
	for _, v := range m {
		require.NotEqual(t, "secret", v)
	}
}

// без DB_HOST Link падает до любой попытки подключения - адрес заведомо недоступен
func TestRecordLinker_MissingHostFailsFast(t *testing.T) {
	l := NewRecordLinker(ConnParams{User: "u", Password: "p", Port: "1", SSLMode: "disable"})

	err := l.Link(context.Background(), "uploads/a.jpg", "thumbnails/a.jpg")
	require.ErrorIs(t, err, model.ErrMissingConfig)
	require.NotErrorIs(t, err, model.ErrLinkConnect)
}
