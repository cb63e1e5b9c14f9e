// Package types - Basket line items
package types

import (
	"encoding/json"
	"fmt"
)

// LineItem is one basket entry: a catalog snapshot plus quantity, note and
// attachment state. Line items are addressed by pointer; two line items may
// carry the same identity and size and still be distinct.
type LineItem struct {
	// ID addresses the line for collaborators
	ID string

	// Item is a copy of the catalog entry
	Item CatalogItem

	// Quantity is at least 1
	Quantity int

	// Note is a free-text annotation
	Note string

	// AttachedTo is the identity of the parent compute line (volumes only)
	AttachedTo string

	// SizeGB is the chosen capacity (volumes only)
	SizeGB int
}

// Kind returns the variant of the wrapped catalog item
func (li *LineItem) Kind() Kind {
	if li.Item == nil {
		return ""
	}
	return li.Item.Kind()
}

// Identity returns the identity of the wrapped catalog item
func (li *LineItem) Identity() string {
	if li.Item == nil {
		return ""
	}
	return li.Item.Identity()
}

// IsAttached reports whether the line is storage attached to a compute line
func (li *LineItem) IsAttached() bool {
	return li.AttachedTo != ""
}

// Clone returns a deep copy
func (li *LineItem) Clone() *LineItem {
	if li == nil {
		return nil
	}
	c := *li
	return &c
}

// Equal compares two line items by value
func (li *LineItem) Equal(other *LineItem) bool {
	if li == nil || other == nil {
		return li == other
	}
	if li.ID != other.ID || li.Quantity != other.Quantity || li.Note != other.Note ||
		li.AttachedTo != other.AttachedTo || li.SizeGB != other.SizeGB {
		return false
	}
	return ItemsEqual(li.Item, other.Item)
}

// ItemsEqual compares two catalog items by value
func ItemsEqual(a, b CatalogItem) bool {
	switch x := a.(type) {
	case Compute:
		y, ok := b.(Compute)
		return ok && x == y
	case Database:
		y, ok := b.(Database)
		return ok && x == y
	case Volume:
		y, ok := b.(Volume)
		return ok && x.VolumeType == y.VolumeType && x.IOPS == y.IOPS &&
			x.Throughput == y.Throughput && x.PricePerGBMonth.Equal(y.PricePerGBMonth)
	case nil:
		return b == nil
	default:
		return false
	}
}

// CloneLineItems deep-copies a slice of line items
func CloneLineItems(items []*LineItem) []*LineItem {
	if items == nil {
		return nil
	}
	out := make([]*LineItem, len(items))
	for i, li := range items {
		out[i] = li.Clone()
	}
	return out
}

// lineItemJSON is the persisted shape of a line item
type lineItemJSON struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Item       json.RawMessage `json:"item"`
	Quantity   int             `json:"quantity"`
	Note       string          `json:"note,omitempty"`
	AttachedTo string          `json:"attachedTo,omitempty"`
	SizeGB     int             `json:"sizeGB,omitempty"`
}

// MarshalJSON writes the line with a kind discriminator
func (li LineItem) MarshalJSON() ([]byte, error) {
	if li.Item == nil {
		return nil, fmt.Errorf("line item %s has no catalog item", li.ID)
	}
	raw, err := json.Marshal(li.Item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(lineItemJSON{
		ID:         li.ID,
		Kind:       li.Item.Kind(),
		Item:       raw,
		Quantity:   li.Quantity,
		Note:       li.Note,
		AttachedTo: li.AttachedTo,
		SizeGB:     li.SizeGB,
	})
}

// UnmarshalJSON reads the line, decoding the item by its kind
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var wire lineItemJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var item CatalogItem
	switch wire.Kind {
	case KindCompute:
		var c Compute
		if err := json.Unmarshal(wire.Item, &c); err != nil {
			return fmt.Errorf("decode compute item: %w", err)
		}
		item = c
	case KindVolume:
		var v Volume
		if err := json.Unmarshal(wire.Item, &v); err != nil {
			return fmt.Errorf("decode volume item: %w", err)
		}
		item = v
	case KindDatabase:
		var d Database
		if err := json.Unmarshal(wire.Item, &d); err != nil {
			return fmt.Errorf("decode database item: %w", err)
		}
		item = d
	default:
		return fmt.Errorf("unknown line item kind %q", wire.Kind)
	}

	*li = LineItem{
		ID:         wire.ID,
		Item:       item,
		Quantity:   wire.Quantity,
		Note:       wire.Note,
		AttachedTo: wire.AttachedTo,
		SizeGB:     wire.SizeGB,
	}
	return nil
}
