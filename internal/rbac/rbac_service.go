package rbac

import (
	"sort"
	"strings"

	"markpedia-os/internal/domain"

	"go.uber.org/zap"
)

// Enforcer is the part of casbin the service needs.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
	GetImplicitPermissionsForUser(user string, domain ...string) ([][]string, error)
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	Permissions(role string) ([]domain.PermissionResponse, error)
}

type service struct {
	enforcer Enforcer
	logger   *zap.Logger
}

func NewService(enforcer Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

// NormalizeRole upper-cases a role claim. A missing claim is treated as
// EMPLOYEE.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return RoleEmployee
	}
	return role
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	role := NormalizeRole(req.Role)

	allowed, err := s.enforcer.Enforce(role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("role", role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("company_id", req.CompanyID),
		zap.String("role", role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Permissions(role string) ([]domain.PermissionResponse, error) {
	rules, err := s.enforcer.GetImplicitPermissionsForUser(NormalizeRole(role))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rules))
	perms := make([]domain.PermissionResponse, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		key := rule[1] + ":" + rule[2]
		if seen[key] {
			continue
		}
		seen[key] = true
		perms = append(perms, domain.PermissionResponse{
			Resource: rule[1],
			Action:   rule[2],
			Label:    permissionLabels[key],
		})
	}

	sort.Slice(perms, func(i, j int) bool {
		if perms[i].Resource != perms[j].Resource {
			return perms[i].Resource < perms[j].Resource
		}
		return perms[i].Action < perms[j].Action
	})
	return perms, nil
}
