// Package pipeline runs fetch, thumbnail, store and link for each change notification
package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/imageproc"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/keymap"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/mwlogger"
	"github.com/wb-go/wbf/config"
)

// ObjectStorage - контракт для работы с хранилищем
type ObjectStorage interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, obj model.StoredObject) error
}

// RecordLinker - контракт для привязки миниатюры к объявлению
type RecordLinker interface {
	Link(ctx context.Context, imageURL, thumbnailURL string) error
}

type Options struct {
	MaxWidth     int
	MaxHeight    int
	CacheControl string
	GeneratorTag string
}

func DefaultOptions() Options {
	return Options{
		MaxWidth:     model.DefaultMaxSide,
		MaxHeight:    model.DefaultMaxSide,
		CacheControl: model.DefaultCacheControl,
		GeneratorTag: model.DefaultGeneratorTag,
	}
}

func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.MaxWidth = positiveInt(cfg.GetString("THUMB_MAX_WIDTH"), opts.MaxWidth)
	opts.MaxHeight = positiveInt(cfg.GetString("THUMB_MAX_HEIGHT"), opts.MaxHeight)
	if tag := cfg.GetString("GENERATOR_TAG"); tag != "" {
		opts.GeneratorTag = tag
	}
	return opts
}

func positiveInt(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

type Pipeline struct {
	storage ObjectStorage
	linker  RecordLinker
	keys    *keymap.Mapper
	opts    Options
}

func New(strg ObjectStorage, linker RecordLinker, keys *keymap.Mapper, opts Options) *Pipeline {
	if keys == nil {
		keys = keymap.New("", "")
	}
	if opts.CacheControl == "" {
		opts.CacheControl = model.DefaultCacheControl
	}
	if opts.GeneratorTag == "" {
		opts.GeneratorTag = model.DefaultGeneratorTag
	}
	return &Pipeline{storage: strg, linker: linker, keys: keys, opts: opts}
}

// ProcessBatch handles notifications one by one. A failed item never stops the batch,
// so the result always holds exactly one entry per notification.
func (p *Pipeline) ProcessBatch(ctx context.Context, batch []model.ChangeNotification) model.BatchResult {
	res := model.BatchResult{
		Processed: len(batch),
		Results:   make([]model.ThumbnailResult, 0, len(batch)),
	}
	for _, n := range batch {
		res.Results = append(res.Results, p.Process(ctx, n))
	}
	return res
}

func (p *Pipeline) Process(ctx context.Context, n model.ChangeNotification) model.ThumbnailResult {
	logger := mwlogger.LoggerFromContext(ctx).With().
		Str("bucket", n.Bucket).
		Str("key", n.Key).
		Logger()
	ctx = mwlogger.WithLogger(ctx, logger)

	res := model.ThumbnailResult{Bucket: n.Bucket, OriginalKey: n.Key}

	// ключи из thumbnails/ отсекаются первыми - иначе бесконечный цикл событий
	if reason := p.keys.Classify(n.Key); reason != "" {
		logger.Info().Str("reason", string(reason)).Msg("Skipping object")
		res.Outcome = model.OutcomeSkipped
		res.Reason = string(reason)
		return res
	}

	thumbKey, thumb, err := p.createThumbnail(ctx, n)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create thumbnail")
		return failed(res, err)
	}
	res.ThumbnailKey = thumbKey
	res.Width, res.Height = thumb.Width, thumb.Height

	// ошибку базы не глотаем: элемент падает, остальные идут дальше
	if err := p.linker.Link(ctx, n.Key, thumbKey); err != nil {
		logger.Error().Err(err).Msg("Failed to link thumbnail to record")
		return failed(res, err)
	}

	logger.Info().Str("thumbnail_key", thumbKey).Msg("Successfully processed")
	res.Outcome = model.OutcomeDone
	res.Success = true
	return res
}

func (p *Pipeline) createThumbnail(ctx context.Context, n model.ChangeNotification) (string, *imageproc.Thumbnail, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	raw, err := p.storage.Get(ctx, n.Bucket, n.Key)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", model.ErrFetch, err)
	}
	logger.Info().Int("bytes", len(raw)).Msg("Downloaded image data")

	thumb, err := imageproc.NormalizeAndResize(raw, p.opts.MaxWidth, p.opts.MaxHeight)
	if err != nil {
		return "", nil, err
	}
	logger.Info().
		Str("format", thumb.SourceFormat).
		Str("size", dimensions(thumb)).
		Msg("Thumbnail generated")

	thumbKey, err := p.keys.DestinationKey(n.Key)
	if err != nil {
		return "", nil, err
	}

	obj := model.StoredObject{
		Body:         thumb.Data,
		ContentType:  thumb.ContentType,
		CacheControl: p.opts.CacheControl,
		Metadata: map[string]string{
			model.MetaOriginalKey:   n.Key,
			model.MetaThumbnailSize: dimensions(thumb),
			model.MetaGeneratedBy:   p.opts.GeneratorTag,
		},
	}
	if err := p.storage.Put(ctx, n.Bucket, thumbKey, obj); err != nil {
		return "", nil, fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return thumbKey, thumb, nil
}

func failed(res model.ThumbnailResult, err error) model.ThumbnailResult {
	res.Outcome = model.OutcomeFailed
	res.Success = false
	res.Err = err
	res.Error = err.Error()
	return res
}

func dimensions(t *imageproc.Thumbnail) string {
	return fmt.Sprintf("%dx%d", t.Width, t.Height)
}
