package plan

import (
	"fmt"

	"go.uber.org/zap"

	"cloudbasket/core/basket"
	"cloudbasket/core/types"
	"cloudbasket/internal/errors"
	"cloudbasket/internal/logging"
)

// Builder fills a basket from a plan. It answers the engine's storage
// requests from the entry being applied.
type Builder struct {
	catalog *types.Catalog
	opts    basket.Options
	engine  *basket.Engine
	current *Entry
	err     error
}

// NewBuilder creates a builder resolving entries against catalog
func NewBuilder(catalog *types.Catalog, opts basket.Options) *Builder {
	if len(opts.VolumeOptions) == 0 {
		opts.VolumeOptions = catalog.Volumes
	}
	return &Builder{catalog: catalog, opts: opts}
}

// Build applies every entry in order to a fresh basket
func (b *Builder) Build(p *Plan) (*basket.Engine, error) {
	b.engine = basket.NewEngine(b.opts, b)
	for i := range p.Entries {
		if err := b.apply(&p.Entries[i]); err != nil {
			return nil, err
		}
	}
	logging.Debug("plan applied",
		zap.String("name", p.Name),
		zap.Int("entries", len(p.Entries)),
		zap.Int("lines", b.engine.Len()),
	)
	return b.engine, nil
}

func (b *Builder) apply(entry *Entry) error {
	item, err := b.resolve(entry)
	if err != nil {
		return err
	}

	if c, ok := item.(types.Compute); ok && entry.Storage != nil && !b.engine.RequiresStorage(c) {
		return errors.Validation(fmt.Sprintf("%s: %s has instance storage and takes no storage block", entry.Location, c.InstanceType))
	}

	b.current = entry
	defer func() { b.current = nil }()

	for i := 0; i < entry.Quantity; i++ {
		b.engine.AddItem(item)
		if b.err != nil {
			err, b.err = b.err, nil
			return err
		}
		if _, pending := b.engine.Pending(); pending {
			b.engine.CancelPending()
			return errors.Internal(fmt.Sprintf("%s: storage request left unanswered", entry.Location), nil)
		}
	}

	if entry.Note != "" {
		if li := b.lineFor(item, entry); li != nil {
			b.engine.SetNote(li, entry.Note)
		}
	}
	return nil
}

func (b *Builder) resolve(entry *Entry) (types.CatalogItem, error) {
	var (
		item types.CatalogItem
		ok   bool
	)
	switch entry.Kind {
	case types.KindCompute:
		item, ok = b.catalog.FindCompute(entry.Type)
	case types.KindVolume:
		item, ok = b.catalog.FindVolume(entry.Type)
	case types.KindDatabase:
		item, ok = b.catalog.FindDatabase(entry.Type)
	}
	if !ok {
		return nil, errors.NotFound(entry.Kind.String(), entry.Type).WithContext("location", entry.Location)
	}
	return item, nil
}

// RequestStorage implements basket.StorageSelector
func (b *Builder) RequestStorage(req basket.StorageRequest) {
	entry := b.current
	if entry == nil {
		b.engine.CancelPending()
		return
	}

	if !req.Attached() {
		b.engine.ConfirmStorage(*req.Volume, entry.SizeGB, nil)
		return
	}

	if entry.SkipStorage {
		b.engine.SkipStorage(*req.AttachTo)
		return
	}

	volumeType, size := req.DefaultVolumeType, req.DefaultSizeGB
	if entry.Storage != nil {
		volumeType = entry.Storage.VolumeType
		if entry.Storage.SizeGB > 0 {
			size = entry.Storage.SizeGB
		}
	}

	volume, ok := b.catalog.FindVolume(volumeType)
	if !ok {
		b.engine.CancelPending()
		b.err = errors.NotFound("volume", volumeType).WithContext("location", entry.Location)
		return
	}
	b.engine.ConfirmStorage(volume, size, req.AttachTo)
}

// lineFor finds the top-level line the entry landed on
func (b *Builder) lineFor(item types.CatalogItem, entry *Entry) *types.LineItem {
	items := b.engine.Items()
	for i := len(items) - 1; i >= 0; i-- {
		li := items[i]
		if li.IsAttached() || li.Kind() != item.Kind() || li.Identity() != item.Identity() {
			continue
		}
		if entry.Kind == types.KindVolume && li.SizeGB != entry.SizeGB {
			continue
		}
		return li
	}
	return nil
}
