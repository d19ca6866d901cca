package rbac

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHR       = "HR"
	RoleCEO      = "CEO"
	RoleAdmin    = "ADMIN"
)

// ModelText is the casbin model. Subjects are token roles; g lets a role
// inherit every permission of another.
const ModelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// DefaultPolicies is used when no policy file is configured.
var DefaultPolicies = [][]string{
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "read"},

	{RoleManager, "leave", "approve"},
	{RoleManager, "report", "read"},

	{RoleHR, "leave", "approve"},
	{RoleHR, "balance", "write"},
	{RoleHR, "report", "read"},

	{RoleCEO, "leave", "approve"},
	{RoleCEO, "report", "read"},

	{RoleAdmin, "leave", "delete"},
	{RoleAdmin, "balance", "write"},
	{RoleAdmin, "report", "read"},
}

var DefaultRoleInheritance = [][]string{
	{RoleManager, RoleEmployee},
	{RoleHR, RoleEmployee},
	{RoleCEO, RoleEmployee},
	{RoleAdmin, RoleEmployee},
}

var permissionLabels = map[string]string{
	"leave:create":  "Submit, edit and cancel own leave requests",
	"leave:read":    "View leave requests",
	"leave:approve": "Act on leave requests in the approval workflow",
	"leave:delete":  "Delete leave requests",
	"balance:write": "Set leave balance allotments",
	"report:read":   "View leave statistics and exports",
}
