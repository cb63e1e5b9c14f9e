// Package basket provides the configuration basket engine.
// The engine owns an ordered list of line items, keeps attached storage tied
// to its compute parent and prices the whole basket in USD per hour.
package basket

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudbasket/core/pricing"
	"cloudbasket/core/types"
	"cloudbasket/internal/logging"
)

// StorageRequest asks the collaborator to choose block storage
type StorageRequest struct {
	// VolumeOptions are the volume types the collaborator may pick from
	VolumeOptions []types.Volume

	// DefaultVolumeType is preselected
	DefaultVolumeType string

	// DefaultSizeGB is preselected
	DefaultSizeGB int

	// AttachTo is the pending compute item, nil for a standalone volume
	AttachTo *types.Compute

	// Volume is the volume being added standalone, if any
	Volume *types.Volume
}

// Attached reports whether the request is for storage attached to compute
func (r *StorageRequest) Attached() bool {
	return r.AttachTo != nil
}

// StorageSelector receives storage requests. The collaborator answers later
// by calling ConfirmStorage or SkipStorage on the engine.
type StorageSelector interface {
	RequestStorage(req StorageRequest)
}

// StorageSelectorFunc adapts a function to StorageSelector
type StorageSelectorFunc func(req StorageRequest)

// RequestStorage implements StorageSelector
func (f StorageSelectorFunc) RequestStorage(req StorageRequest) {
	f(req)
}

// Options configures an Engine
type Options struct {
	// StorageSentinel is the compute storage tag that requires attached storage
	StorageSentinel string

	// DefaultVolumeType is offered first in storage requests
	DefaultVolumeType string

	// DefaultSizeGB is offered in storage requests
	DefaultSizeGB int

	// VolumeOptions are the volume types offered in storage requests
	VolumeOptions []types.Volume
}

// DefaultOptions returns the stock engine options
func DefaultOptions() Options {
	return Options{
		StorageSentinel:   "EBS only",
		DefaultVolumeType: "gp3",
		DefaultSizeGB:     8,
	}
}

// Engine is the basket. It is not safe for concurrent use; a basket has a
// single writer.
type Engine struct {
	opts     Options
	selector StorageSelector
	items    []*types.LineItem
	pending  *StorageRequest
}

// NewEngine creates an empty basket
func NewEngine(opts Options, selector StorageSelector) *Engine {
	if opts.DefaultSizeGB <= 0 {
		opts.DefaultSizeGB = DefaultOptions().DefaultSizeGB
	}
	if selector == nil {
		selector = StorageSelectorFunc(func(StorageRequest) {})
	}
	return &Engine{
		opts:     opts,
		selector: selector,
	}
}

// RequiresStorage reports whether a compute item needs external block storage
func (e *Engine) RequiresStorage(c types.Compute) bool {
	return e.opts.StorageSentinel != "" && c.Storage == e.opts.StorageSentinel
}

// AddItem adds a catalog item. Compute items that need block storage and
// standalone volumes go through the storage selector first; everything else
// merges into an existing line or is appended.
func (e *Engine) AddItem(item types.CatalogItem) {
	switch it := item.(type) {
	case types.Compute:
		if e.RequiresStorage(it) {
			c := it
			e.request(StorageRequest{AttachTo: &c})
			return
		}
		e.mergeOrAppend(it, 0)
	case types.Volume:
		v := it
		e.request(StorageRequest{Volume: &v, DefaultVolumeType: v.VolumeType})
	case types.Database:
		e.mergeOrAppend(it, 0)
	default:
		logging.Warn("ignoring unknown catalog item", zap.String("type", fmt.Sprintf("%T", item)))
	}
}

// ConfirmStorage completes a storage request. With a pending compute item the
// compute line is merged or appended and a new attached volume line is always
// appended. Without one the volume is merged or appended as standalone storage.
// A size below 1 GiB is ignored and the request stays pending.
func (e *Engine) ConfirmStorage(volume types.Volume, sizeGB int, pending *types.Compute) {
	if sizeGB < 1 {
		logging.Warn("ignoring storage confirmation without a size",
			zap.String("volume", volume.VolumeType),
			zap.Int("size_gb", sizeGB),
		)
		return
	}
	e.pending = nil

	if pending == nil {
		e.mergeOrAppend(volume, sizeGB)
		return
	}

	e.mergeOrAppend(*pending, 0)
	e.items = append(e.items, &types.LineItem{
		ID:         uuid.NewString(),
		Item:       volume,
		Quantity:   1,
		Note:       fmt.Sprintf("%d GiB %s attached to %s", sizeGB, volume.VolumeType, pending.InstanceType),
		AttachedTo: pending.InstanceType,
		SizeGB:     sizeGB,
	})
}

// SkipStorage adds the pending compute item without storage
func (e *Engine) SkipStorage(pending types.Compute) {
	e.pending = nil
	e.mergeOrAppend(pending, 0)
}

// Pending returns the outstanding storage request, if any
func (e *Engine) Pending() (StorageRequest, bool) {
	if e.pending == nil {
		return StorageRequest{}, false
	}
	return *e.pending, true
}

// CancelPending discards the outstanding storage request
func (e *Engine) CancelPending() {
	e.pending = nil
}

// RemoveItem removes exactly li. Removing a compute line also removes every
// line attached to it.
func (e *Engine) RemoveItem(li *types.LineItem) {
	if li == nil || !e.contains(li) {
		return
	}

	cascade := li.Kind() == types.KindCompute
	parent := li.Identity()

	kept := e.items[:0]
	removed := 0
	for _, it := range e.items {
		if it == li || (cascade && it.AttachedTo == parent) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	clearTail(e.items, len(kept))
	e.items = kept

	if removed > 1 {
		logging.Debug("removed compute line with attached storage",
			zap.String("identity", parent),
			zap.Int("attached", removed-1),
		)
	}
}

// SetQuantity replaces the quantity, clamped to at least 1
func (e *Engine) SetQuantity(li *types.LineItem, qty int) {
	if li == nil {
		return
	}
	if qty < 1 {
		qty = 1
	}
	li.Quantity = qty
}

// Increment raises the quantity by one
func (e *Engine) Increment(li *types.LineItem) {
	if li == nil {
		return
	}
	e.SetQuantity(li, li.Quantity+1)
}

// Decrement lowers the quantity by one; a line at quantity 1 is removed
// (with cascade for compute lines).
func (e *Engine) Decrement(li *types.LineItem) {
	if li == nil {
		return
	}
	if li.Quantity <= 1 {
		e.RemoveItem(li)
		return
	}
	li.Quantity--
}

// SetNote replaces the note verbatim
func (e *Engine) SetNote(li *types.LineItem, note string) {
	if li == nil {
		return
	}
	li.Note = note
}

// Clear empties the basket
func (e *Engine) Clear() {
	clearTail(e.items, 0)
	e.items = nil
	e.pending = nil
}

// Total returns the basket total in USD per hour
func (e *Engine) Total() decimal.Decimal {
	return pricing.Total(e.items)
}

// ReservedTotal returns the basket total using reserved compute rates where
// published; other lines are priced as usual.
func (e *Engine) ReservedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range e.items {
		unit := pricing.ReservedHourly(li)
		if unit.IsZero() {
			unit = pricing.Hourly(li)
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total
}

// Items returns the line items in insertion order. The slice is a copy; the
// pointers are live and may be passed back to the mutating operations.
func (e *Engine) Items() []*types.LineItem {
	out := make([]*types.LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// Snapshot returns a deep copy of the line items
func (e *Engine) Snapshot() []*types.LineItem {
	return types.CloneLineItems(e.items)
}

func (e *Engine) contains(li *types.LineItem) bool {
	for _, it := range e.items {
		if it == li {
			return true
		}
	}
	return false
}

// AttachedTo returns the lines attached to a compute identity
func (e *Engine) AttachedTo(identity string) []*types.LineItem {
	var out []*types.LineItem
	for _, li := range e.items {
		if li.AttachedTo == identity {
			out = append(out, li)
		}
	}
	return out
}

// Len returns the number of line items
func (e *Engine) Len() int {
	return len(e.items)
}

// IsEmpty reports whether the basket has no line items
func (e *Engine) IsEmpty() bool {
	return len(e.items) == 0
}

// Restore replaces the basket contents with a deep copy of items. Lines that
// are not well formed are dropped one by one; the rest of the basket is kept.
// Duplicate top-level lines are merged into the first one.
func (e *Engine) Restore(items []*types.LineItem) {
	e.Clear()

	computes := make(map[string]bool)
	for _, li := range items {
		if li != nil && li.Kind() == types.KindCompute && !li.IsAttached() {
			computes[li.Identity()] = true
		}
	}

	for _, li := range items {
		if reason := checkLine(li, computes); reason != "" {
			fields := []zap.Field{zap.String("reason", reason)}
			if li != nil {
				fields = append(fields, zap.String("id", li.ID), zap.String("identity", li.Identity()))
			}
			logging.Warn("dropping inconsistent line item", fields...)
			continue
		}
		c := li.Clone()
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Quantity < 1 {
			c.Quantity = 1
		}
		if dup := e.topLevel(c.Item, c.SizeGB); dup != nil && !c.IsAttached() {
			logging.Warn("merging duplicate line item",
				zap.String("id", c.ID),
				zap.String("into", dup.ID),
				zap.String("identity", c.Identity()),
			)
			dup.Quantity += c.Quantity
			continue
		}
		e.items = append(e.items, c)
	}
}

func checkLine(li *types.LineItem, computes map[string]bool) string {
	switch {
	case li == nil || li.Item == nil:
		return "missing catalog item"
	case li.IsAttached() && li.Kind() != types.KindVolume:
		return "only volumes can be attached"
	case li.IsAttached() && !computes[li.AttachedTo]:
		return "attached to a compute item that is not in the basket"
	}
	return ""
}

func (e *Engine) request(req StorageRequest) {
	if req.DefaultVolumeType == "" {
		req.DefaultVolumeType = e.opts.DefaultVolumeType
	}
	req.DefaultSizeGB = e.opts.DefaultSizeGB
	req.VolumeOptions = append([]types.Volume(nil), e.opts.VolumeOptions...)
	e.pending = &req
	e.selector.RequestStorage(req)
}

// mergeOrAppend increments an existing top-level line of the same variant and
// identity (and size, for volumes) or appends a new line with quantity 1.
func (e *Engine) mergeOrAppend(item types.CatalogItem, sizeGB int) {
	if li := e.topLevel(item, sizeGB); li != nil {
		li.Quantity++
		return
	}

	li := &types.LineItem{
		ID:       uuid.NewString(),
		Item:     item,
		Quantity: 1,
	}
	if item.Kind() == types.KindVolume {
		li.SizeGB = sizeGB
	}
	e.items = append(e.items, li)
}

// topLevel returns the unattached line matching item, or nil
func (e *Engine) topLevel(item types.CatalogItem, sizeGB int) *types.LineItem {
	for _, li := range e.items {
		if li.IsAttached() || li.Kind() != item.Kind() || li.Identity() != item.Identity() {
			continue
		}
		if item.Kind() == types.KindVolume && li.SizeGB != sizeGB {
			continue
		}
		return li
	}
	return nil
}

func clearTail(items []*types.LineItem, from int) {
	for i := from; i < len(items); i++ {
		items[i] = nil
	}
}
