package store

import "strings"

// SortKey is a whitelisted order sort. A leading "-" means descending.
type SortKey string

const (
	SortClientName           SortKey = "client_name"
	SortClientNameDesc       SortKey = "-client_name"
	SortStatus               SortKey = "status"
	SortStatusDesc           SortKey = "-status"
	SortDeliveryDate         SortKey = "delivery_date"
	SortDeliveryDateDesc     SortKey = "-delivery_date"
	SortRequestTimestamp     SortKey = "request_timestamp"
	SortRequestTimestampDesc SortKey = "-request_timestamp"
	SortID                   SortKey = "id"
	SortIDDesc               SortKey = "-id"

	DefaultSort = SortRequestTimestampDesc
)

var sortWhitelist = map[SortKey]bool{
	SortClientName:           true,
	SortClientNameDesc:       true,
	SortStatus:               true,
	SortStatusDesc:           true,
	SortDeliveryDate:         true,
	SortDeliveryDateDesc:     true,
	SortRequestTimestamp:     true,
	SortRequestTimestampDesc: true,
	SortID:                   true,
	SortIDDesc:               true,
}

// ParseSort returns DefaultSort for anything outside the whitelist.
func ParseSort(raw string) SortKey {
	k := SortKey(strings.TrimSpace(raw))
	if sortWhitelist[k] {
		return k
	}
	return DefaultSort
}

// Field is the key without its direction prefix.
func (k SortKey) Field() string {
	return strings.TrimPrefix(string(k), "-")
}

func (k SortKey) Desc() bool {
	return strings.HasPrefix(string(k), "-")
}
