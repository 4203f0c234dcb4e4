package database

const (
	CollectionAdmins            = "admins"
	CollectionUsers             = "users"
	CollectionMechanics         = "mechanics"
	CollectionBookings          = "bookings"
	CollectionPricing           = "pricing"
	CollectionRegions           = "regions"
	CollectionServices          = "services"
	CollectionServiceCategories = "service_categories"
	CollectionSupportQueries    = "support_queries"
	CollectionAuditLogs         = "audit_logs"
	CollectionMigrations        = "migrations"
)
