package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// policies map each role onto the resource:action pairs it may hit. The lists
// mirror the route-level role gates the product started with.
var policies = [][]string{
	{RoleAdmin, "employee", "read"},
	{RoleHR, "employee", "read"},
	{RoleManager, "employee", "read"},
	{RoleEmployee, "employee", "read"},
	{RoleAdmin, "employee", "write"},
	{RoleHR, "employee", "write"},
	{RoleManager, "employee", "write"},
	{RoleAdmin, "employee", "delete"},
	{RoleHR, "employee", "delete"},
	{RoleManager, "employee", "delete"},

	{RoleAdmin, "leave", "read"},
	{RoleHR, "leave", "read"},
	{RoleManager, "leave", "read"},
	{RoleEmployee, "leave", "read_own"},
	{RoleHR, "leave", "read_own"},
	{RoleManager, "leave", "read_own"},
	{RoleEmployee, "leave", "request"},
	{RoleHR, "leave", "request"},
	{RoleManager, "leave", "request"},
	{RoleAdmin, "leave", "review"},
	{RoleHR, "leave", "review"},
	{RoleManager, "leave", "review"},
	{RoleAdmin, "leave", "delete"},
	{RoleHR, "leave", "delete"},
	{RoleManager, "leave", "delete"},

	{RoleAdmin, "attendance", "read"},
	{RoleHR, "attendance", "read"},
	{RoleManager, "attendance", "read"},
	{RoleEmployee, "attendance", "mark"},
	{RoleHR, "attendance", "mark"},
	{RoleManager, "attendance", "mark"},
	{RoleEmployee, "attendance", "read_own"},
	{RoleHR, "attendance", "read_own"},
	{RoleManager, "attendance", "read_own"},
	{RoleAdmin, "attendance", "delete"},
	{RoleHR, "attendance", "delete"},

	{RoleAdmin, "settings", "write"},
	{RoleHR, "settings", "write"},
	{RoleAdmin, "settings", "read"},
	{RoleHR, "settings", "read"},
	{RoleManager, "settings", "read"},
	{RoleEmployee, "settings", "read"},

	{RoleAdmin, "ticket", "read"},
	{RoleHR, "ticket", "read"},
	{RoleManager, "ticket", "read"},
	{RoleEmployee, "ticket", "read"},
	{RoleAdmin, "ticket", "raise"},
	{RoleHR, "ticket", "raise"},
	{RoleManager, "ticket", "raise"},
	{RoleEmployee, "ticket", "raise"},
	{RoleAdmin, "ticket", "resolve"},
	{RoleHR, "ticket", "resolve"},
	{RoleManager, "ticket", "resolve"},
	{RoleAdmin, "ticket", "delete"},
	{RoleHR, "ticket", "delete"},
}

// NewEnforcer builds an in-memory casbin enforcer with the static role
// policy. There is no runtime policy mutation, so no persistent adapter.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
