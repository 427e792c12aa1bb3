// Package adpostgres links uploaded images to their thumbnails in the advertisements table.
package adpostgres

import (
	"context"
	"fmt"
	"time"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/mwlogger"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

const linkQuery = `UPDATE advertisements SET thumbnail_url = $1 WHERE image_url = $2`

// Connector opens a scoped database handle; the caller owns closing it.
type Connector func(ctx context.Context, dsn string) (*dbpg.DB, error)

type Params struct {
	DSN      string
	Validate func() error
}

type Linker struct {
	params  Params
	connect Connector
}

// NewLinker - nil connector означает реальное подключение через dbpg
func NewLinker(p Params, connect Connector) *Linker {
	if connect == nil {
		connect = DialDBPG
	}
	return &Linker{params: p, connect: connect}
}

func DialDBPG(_ context.Context, dsn string) (*dbpg.DB, error) {
	return dbpg.New(dsn, nil, &dbpg.Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
}

// Link sets thumbnail_url for every row with the given image_url. The statement runs
// without an explicit transaction. Zero matched rows is only a warning.
func (l *Linker) Link(ctx context.Context, imageURL, thumbnailURL string) error {
	logger := mwlogger.LoggerFromContext(ctx)

	// до любого сетевого вызова
	if l.params.Validate != nil {
		if err := l.params.Validate(); err != nil {
			return err
		}
	}

	logger.Info().Str("image_url", imageURL).Str("thumbnail_url", thumbnailURL).Msg("Updating database")

	db, err := l.connect(ctx, l.params.DSN)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrLinkConnect, err)
	}
	defer func() {
		if err := db.Master.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close DB-conn correctly")
			return
		}
		logger.Debug().Msg("Database connection closed")
	}()

	res, err := db.Master.ExecContext(ctx, linkQuery, thumbnailURL, imageURL)
	if err != nil {
		return fmt.Errorf("%w for %q: %v", model.ErrLinkExec, imageURL, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w for %q: %v", model.ErrLinkExec, imageURL, err)
	}

	if affected == 0 {
		logger.Warn().Str("image_url", imageURL).Msg("No rows updated for image_url")
		return nil
	}
	logger.Info().Int64("affected_rows", affected).Msg("Successfully updated thumbnail_url")
	return nil
}
