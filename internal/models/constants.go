package models

const (
	SelectionSingle   = "single"
	SelectionMultiple = "multiple"

	CouponPercent = "percent"
	CouponFlat    = "flat"

	// LegacyGroupName names the implicit group built from a flat variations list.
	LegacyGroupName = "Choice"

	OrderStatusPending = "pending"

	DestinationConsole  = "console"
	DestinationJSON     = "json"
	DestinationParquet  = "parquet"
	DestinationKafka    = "kafka"
	DestinationPostgres = "postgres"
)
