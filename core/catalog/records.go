package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"cloudbasket/core/types"
)

// Accepted field names per attribute, in lookup order
var (
	instanceTypeKeys = []string{"instanceType", "Instance Type", "instance_type", "name"}
	volumeTypeKeys   = []string{"volumeType", "Volume Type", "volume_type", "type", "name"}
	vcpuKeys         = []string{"vcpu", "vCPU", "vCPUs", "cores"}
	memoryKeys       = []string{"memory", "Memory", "memoryGiB"}
	storageKeys      = []string{"storage", "Storage", "Instance Storage"}
	osKeys           = []string{"os", "OS", "Operating System"}
	deploymentKeys   = []string{"deployment", "Deployment", "Tenancy"}
	hourlyKeys       = []string{"hourlyRate", "pricePerHour", "Price Per Hour", "On Demand", "price"}
	reservedKeys     = []string{"reservedHourlyRate", "reservedPricePerHour", "Reserved"}
	iopsKeys         = []string{"iops", "IOPS", "Max IOPS"}
	throughputKeys   = []string{"throughput", "Throughput", "Max Throughput"}
	gbMonthKeys      = []string{"pricePerGBMonth", "Price Per GB-Month", "price"}
	engineKeys       = []string{"engine", "Engine", "Database Engine"}
	dbStorageKeys    = []string{"storageGB", "storage", "Storage"}
)

func lookup(rec Record, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func str(rec Record, keys []string) string {
	v, ok := lookup(rec, keys)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// number reads a numeric attribute that may carry a unit suffix ("8 GiB")
func number(rec Record, keys []string) float64 {
	v, ok := lookup(rec, keys)
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		v = leadingNumber(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}

func leadingNumber(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	return s[:end]
}

// rateString reads a price attribute as the published string
func rateString(rec Record, keys []string) string {
	v, ok := lookup(rec, keys)
	if !ok {
		return ""
	}
	if f, isFloat := v.(float64); isFloat {
		return decimal.NewFromFloat(f).String()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func toCompute(rec Record) (types.CatalogItem, error) {
	return types.Compute{
		InstanceType:       str(rec, instanceTypeKeys),
		VCPU:               int(number(rec, vcpuKeys)),
		MemoryGiB:          number(rec, memoryKeys),
		Storage:            str(rec, storageKeys),
		OS:                 str(rec, osKeys),
		Deployment:         str(rec, deploymentKeys),
		HourlyRate:         rateString(rec, hourlyKeys),
		ReservedHourlyRate: rateString(rec, reservedKeys),
	}, nil
}

func toVolume(rec Record) (types.CatalogItem, error) {
	raw := rateString(rec, gbMonthKeys)
	price, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
	if err != nil {
		return nil, fmt.Errorf("unparsable price per GB-month %q", raw)
	}
	return types.Volume{
		VolumeType:      str(rec, volumeTypeKeys),
		IOPS:            str(rec, iopsKeys),
		Throughput:      str(rec, throughputKeys),
		PricePerGBMonth: price,
	}, nil
}

func toDatabase(rec Record) (types.CatalogItem, error) {
	return types.Database{
		InstanceType: str(rec, instanceTypeKeys),
		Engine:       str(rec, engineKeys),
		VCPU:         int(number(rec, vcpuKeys)),
		MemoryGiB:    number(rec, memoryKeys),
		StorageGB:    int(number(rec, dbStorageKeys)),
		HourlyRate:   rateString(rec, hourlyKeys),
	}, nil
}
