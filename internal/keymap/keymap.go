// Package keymap decides which storage keys get a thumbnail and where the thumbnail goes.
package keymap

import (
	"fmt"
	"path"
	"strings"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
)

type SkipReason string

const (
	SkipDerived    SkipReason = "derived-prefix"
	SkipOutside    SkipReason = "outside-incoming-prefix"
	SkipNotAnImage SkipReason = "not-an-image"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

type Mapper struct {
	incoming string
	derived  string
}

// New - пустые префиксы заменяются дефолтами uploads/ и thumbnails/
func New(incoming, derived string) *Mapper {
	if incoming == "" {
		incoming = model.DefaultIncomingPrefix
	}
	if derived == "" {
		derived = model.DefaultDerivedPrefix
	}
	return &Mapper{incoming: incoming, derived: derived}
}

func (m *Mapper) Incoming() string { return m.incoming }
func (m *Mapper) Derived() string  { return m.derived }

// Classify returns an empty reason for keys that should be thumbnailed.
// The derived prefix is checked first: a thumbnail written back into the bucket
// must never be picked up again, even if it also matches the incoming prefix.
func (m *Mapper) Classify(key string) SkipReason {
	if strings.HasPrefix(key, m.derived) {
		return SkipDerived
	}
	if !strings.HasPrefix(key, m.incoming) {
		return SkipOutside
	}
	if !imageExtensions[extension(key)] {
		return SkipNotAnImage
	}
	return ""
}

func (m *Mapper) IsEligibleSource(key string) bool {
	return m.Classify(key) == ""
}

// DestinationKey - первое вхождение входного префикса меняется на префикс миниатюр
func (m *Mapper) DestinationKey(src string) (string, error) {
	if !strings.Contains(src, m.incoming) {
		return src, fmt.Errorf("%w: %q has no %q", model.ErrKeyMapping, src, m.incoming)
	}
	return strings.Replace(src, m.incoming, m.derived, 1), nil
}

// extension - точки в начале имени файла расширением не считаются (".jpg" без расширения)
func extension(key string) string {
	base := strings.TrimLeft(path.Base(strings.ToLower(key)), ".")
	return path.Ext(base)
}
