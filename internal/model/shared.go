package model

// SharedModels returns the tables that live in the shared schema.
func SharedModels() []interface{} {
	return []interface{}{&Tenant{}, &User{}, &UserTenant{}}
}

// TenantModels returns the table set created in every provisioned tenant schema,
// ordered so that referenced tables come first.
func TenantModels() []interface{} {
	return []interface{}{
		&Client{},
		&Supplier{},
		&Branch{},
		&Department{},
		&Operator{},
		&Section{},
		&Category{},
		&Unit{},
		&Product{},
		&Stock{},
		&SalesOrder{},
		&SalesOrderItem{},
	}
}
