package models

// All lists the models AutoMigrate creates, parents before children.
func All() []any {
	return []any{
		&Hub{},
		&User{},
		&Property{},
		&Tenant{},
		&Lease{},
		&AuditLog{},
	}
}
