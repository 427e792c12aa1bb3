package adpostgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"
)

var linkRe = regexp.QuoteMeta(linkQuery)

func newLinkerWithMock(t *testing.T) (*Linker, sqlmock.Sqlmock, *int) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dials := 0
	l := NewLinker(Params{DSN: "postgres://mock"}, func(ctx context.Context, dsn string) (*dbpg.DB, error) {
		dials++
		require.Equal(t, "postgres://mock", dsn)
		return &dbpg.DB{Master: db}, nil
	})

	return l, mock, &dials
}

// LINK - SUCCESS
func TestLinker_Link_OK(t *testing.T) {
	l, mock, dials := newLinkerWithMock(t)

	mock.ExpectExec(linkRe).
		WithArgs("thumbnails/kep.jpg", "uploads/kep.jpg").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	require.NoError(t, l.Link(context.Background(), "uploads/kep.jpg", "thumbnails/kep.jpg"))
	require.Equal(t, 1, *dials)
	require.NoError(t, mock.ExpectationsWereMet())
}

// LINK - ZERO ROWS IS NOT AN ERROR
func TestLinker_Link_NoRows(t *testing.T) {
	l, mock, _ := newLinkerWithMock(t)

	mock.ExpectExec(linkRe).
		WithArgs("thumbnails/kep.jpg", "uploads/kep.jpg").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	require.NoError(t, l.Link(context.Background(), "uploads/kep.jpg", "thumbnails/kep.jpg"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// LINK - EXEC ERROR, CONNECTION STILL CLOSED
func TestLinker_Link_ExecError(t *testing.T) {
	l, mock, _ := newLinkerWithMock(t)

	mock.ExpectExec(linkRe).
		WillReturnError(errors.New("db down"))
	mock.ExpectClose()

	err := l.Link(context.Background(), "uploads/kep.jpg", "thumbnails/kep.jpg")
	require.ErrorIs(t, err, model.ErrLinkExec)
	require.NoError(t, mock.ExpectationsWereMet())
}

// LINK - ROWS AFFECTED ERROR
func TestLinker_Link_RowsAffectedError(t *testing.T) {
	l, mock, _ := newLinkerWithMock(t)

	mock.ExpectExec(linkRe).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gone")))
	mock.ExpectClose()

	err := l.Link(context.Background(), "uploads/kep.jpg", "thumbnails/kep.jpg")
	require.ErrorIs(t, err, model.ErrLinkExec)
	require.NoError(t, mock.ExpectationsWereMet())
}

// LINK - CONNECT ERROR
func TestLinker_Link_ConnectError(t *testing.T) {
	l := NewLinker(Params{DSN: "postgres://mock"}, func(ctx context.Context, dsn string) (*dbpg.DB, error) {
		return nil, errors.New("connection refused")
	})

	err := l.Link(context.Background(), "uploads/kep.jpg", "thumbnails/kep.jpg")
	require.ErrorIs(t, err, model.ErrLinkConnect)
}

// LINK - INVALID CONFIG, NO DIAL AT ALL
func TestLinker_Link_InvalidConfig(t *testing.T) {
	dials := 0
	l := NewLinker(Params{
		DSN:      "postgres://mock",
		Validate: func() error { return model.ErrMissingConfig },
	}, func(ctx context.Context, dsn string) (*dbpg.DB, error) {
		dials++
		return nil, errors.New("must not be called")
	})

	err := l.Link(context.Background(), "uploads/kep.jpg", "thumbnails/kep.jpg")
	require.ErrorIs(t, err, model.ErrMissingConfig)
	require.Zero(t, dials)
}
