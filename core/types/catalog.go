// Package types - Catalog item types
// A catalog item is one of three variants; the set is closed.
package types

import "github.com/shopspring/decimal"

// Kind discriminates the catalog item variants
type Kind string

const (
	KindCompute  Kind = "compute"
	KindVolume   Kind = "volume"
	KindDatabase Kind = "database"
)

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k names a known variant
func (k Kind) Valid() bool {
	switch k {
	case KindCompute, KindVolume, KindDatabase:
		return true
	default:
		return false
	}
}

// CatalogItem is a priceable catalog entry.
// Implemented only by Compute, Volume and Database.
type CatalogItem interface {
	// Kind returns the variant
	Kind() Kind

	// Identity is the instance-type or volume-type name
	Identity() string

	catalogItem()
}

// Compute is a virtual machine instance type priced per hour
type Compute struct {
	// InstanceType is the identity, e.g. "m5.large"
	InstanceType string `json:"instanceType"`

	// VCPU is the core count
	VCPU int `json:"vcpu"`

	// MemoryGiB is the memory size
	MemoryGiB float64 `json:"memoryGiB"`

	// Storage is the storage edition tag, e.g. "EBS only"
	Storage string `json:"storage"`

	// OS is the operating system tag
	OS string `json:"os,omitempty"`

	// Deployment is the deployment tag, e.g. "Shared"
	Deployment string `json:"deployment,omitempty"`

	// HourlyRate is the on-demand rate as published
	HourlyRate string `json:"hourlyRate"`

	// ReservedHourlyRate is the reserved rate as published, if any
	ReservedHourlyRate string `json:"reservedHourlyRate,omitempty"`
}

// Kind implements CatalogItem
func (c Compute) Kind() Kind { return KindCompute }

// Identity implements CatalogItem
func (c Compute) Identity() string { return c.InstanceType }

func (Compute) catalogItem() {}

// Volume is a block storage type priced per GB-month
type Volume struct {
	// VolumeType is the identity, e.g. "gp3"
	VolumeType string `json:"volumeType"`

	// IOPS is the baseline IOPS description
	IOPS string `json:"iops,omitempty"`

	// Throughput is the baseline throughput description
	Throughput string `json:"throughput,omitempty"`

	// PricePerGBMonth is the capacity unit price
	PricePerGBMonth decimal.Decimal `json:"pricePerGBMonth"`
}

// Kind implements CatalogItem
func (v Volume) Kind() Kind { return KindVolume }

// Identity implements CatalogItem
func (v Volume) Identity() string { return v.VolumeType }

func (Volume) catalogItem() {}

// Database is a managed database instance type priced per hour
type Database struct {
	// InstanceType is the identity, e.g. "db.t3.micro"
	InstanceType string `json:"instanceType"`

	// Engine is the database engine, e.g. "PostgreSQL"
	Engine string `json:"engine"`

	// VCPU is the core count
	VCPU int `json:"vcpu"`

	// MemoryGiB is the memory size
	MemoryGiB float64 `json:"memoryGiB"`

	// StorageGB is the included storage size
	StorageGB int `json:"storageGB"`

	// HourlyRate is the on-demand rate as published
	HourlyRate string `json:"hourlyRate"`
}

// Kind implements CatalogItem
func (d Database) Kind() Kind { return KindDatabase }

// Identity implements CatalogItem
func (d Database) Identity() string { return d.InstanceType }

func (Database) catalogItem() {}

// Catalog holds the three loaded catalog lists
type Catalog struct {
	Compute   []Compute  `json:"compute"`
	Volumes   []Volume   `json:"volumes"`
	Databases []Database `json:"databases"`
}

// FindCompute looks up a compute item by instance type
func (c *Catalog) FindCompute(instanceType string) (Compute, bool) {
	for _, item := range c.Compute {
		if item.InstanceType == instanceType {
			return item, true
		}
	}
	return Compute{}, false
}

// FindVolume looks up a volume item by volume type
func (c *Catalog) FindVolume(volumeType string) (Volume, bool) {
	for _, item := range c.Volumes {
		if item.VolumeType == volumeType {
			return item, true
		}
	}
	return Volume{}, false
}

// FindDatabase looks up a database item by instance type
func (c *Catalog) FindDatabase(instanceType string) (Database, bool) {
	for _, item := range c.Databases {
		if item.InstanceType == instanceType {
			return item, true
		}
	}
	return Database{}, false
}

// Len returns the number of items across all lists
func (c *Catalog) Len() int {
	return len(c.Compute) + len(c.Volumes) + len(c.Databases)
}
