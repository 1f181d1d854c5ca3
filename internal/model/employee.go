package model

// Employee is the example business entity consumed by the employee actions and
// the "employeeLov" dynamic list of values.
type Employee struct {
	Tracked

	Name   string `gorm:"type:varchar(100);not null" json:"name"`
	Salary int64  `gorm:"not null" json:"salary"`
}
