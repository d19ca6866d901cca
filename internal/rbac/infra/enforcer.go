package infra

import (
	"markpedia-os/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// NewEnforcer builds the role enforcer. With a policyPath the policy lines
// come from that CSV file, otherwise the built-in defaults are loaded.
func NewEnforcer(policyPath string) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(rbac.ModelText)
	if err != nil {
		return nil, err
	}

	if policyPath != "" {
		return casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(rbac.DefaultPolicies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(rbac.DefaultRoleInheritance); err != nil {
		return nil, err
	}
	return e, nil
}
