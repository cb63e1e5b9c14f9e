package catalog

import (
	"github.com/shopspring/decimal"

	"cloudbasket/core/types"
)

// Builtin returns a small us-east-1 style catalog used when no catalog files
// are configured.
func Builtin() *types.Catalog {
	return &types.Catalog{
		Compute: []types.Compute{
			{InstanceType: "t3.micro", VCPU: 2, MemoryGiB: 1, Storage: "EBS only", OS: "Linux", Deployment: "Shared", HourlyRate: "0.0104", ReservedHourlyRate: "0.0065"},
			{InstanceType: "t3.medium", VCPU: 2, MemoryGiB: 4, Storage: "EBS only", OS: "Linux", Deployment: "Shared", HourlyRate: "0.0416", ReservedHourlyRate: "0.026"},
			{InstanceType: "m5.large", VCPU: 2, MemoryGiB: 8, Storage: "EBS only", OS: "Linux", Deployment: "Shared", HourlyRate: "0.096", ReservedHourlyRate: "0.06"},
			{InstanceType: "m5.xlarge", VCPU: 4, MemoryGiB: 16, Storage: "EBS only", OS: "Linux", Deployment: "Shared", HourlyRate: "0.192", ReservedHourlyRate: "0.121"},
			{InstanceType: "c5d.xlarge", VCPU: 4, MemoryGiB: 8, Storage: "1 x 100 NVMe SSD", OS: "Linux", Deployment: "Shared", HourlyRate: "0.192"},
			{InstanceType: "r5.large", VCPU: 2, MemoryGiB: 16, Storage: "EBS only", OS: "Linux", Deployment: "Shared", HourlyRate: "0.126", ReservedHourlyRate: "0.079"},
		},
		Volumes: []types.Volume{
			{VolumeType: "gp2", IOPS: "3 IOPS/GiB", Throughput: "250 MiB/s", PricePerGBMonth: decimal.RequireFromString("0.10")},
			{VolumeType: "gp3", IOPS: "3000", Throughput: "125 MiB/s", PricePerGBMonth: decimal.RequireFromString("0.08")},
			{VolumeType: "io2", IOPS: "64000", Throughput: "1000 MiB/s", PricePerGBMonth: decimal.RequireFromString("0.125")},
			{VolumeType: "st1", IOPS: "500", Throughput: "500 MiB/s", PricePerGBMonth: decimal.RequireFromString("0.045")},
			{VolumeType: "sc1", IOPS: "250", Throughput: "250 MiB/s", PricePerGBMonth: decimal.RequireFromString("0.015")},
		},
		Databases: []types.Database{
			{InstanceType: "db.t3.micro", Engine: "PostgreSQL", VCPU: 2, MemoryGiB: 1, StorageGB: 20, HourlyRate: "0.018"},
			{InstanceType: "db.t3.medium", Engine: "PostgreSQL", VCPU: 2, MemoryGiB: 4, StorageGB: 100, HourlyRate: "0.072"},
			{InstanceType: "db.m5.large", Engine: "MySQL", VCPU: 2, MemoryGiB: 8, StorageGB: 100, HourlyRate: "0.171"},
			{InstanceType: "db.r5.large", Engine: "PostgreSQL", VCPU: 2, MemoryGiB: 16, StorageGB: 200, HourlyRate: "0.25"},
		},
	}
}
