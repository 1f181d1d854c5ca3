package types

// EmployeeModel is the wire model for the example employee entity used by the
// employee actions and the employee dynamic LOV.
type EmployeeModel struct {
	Name   string `json:"name" validate:"required"`
	Salary int64  `json:"salary" validate:"gte=0"`
}

// EmployeeResponse is returned by employee.fetch.
type EmployeeResponse struct {
	BaseResponse
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Salary int64  `json:"salary"`
}

// TestModel is the payload accepted by the test actions. It exercises the
// pre-invocation validation rules end to end.
type TestModel struct {
	Name            string  `json:"name" validate:"required"`
	Age             int     `json:"age" validate:"gte=18,lte=30"`
	Password        string  `json:"password" validate:"required"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	LovType         LovType `json:"lov_type,omitempty"`
	EmpName         string  `json:"emp_name,omitempty"`
}
