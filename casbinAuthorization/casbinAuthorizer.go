package casbinAuthorization

import (
	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"
)

// Authorizer answers whether a role may perform a method on a path. The
// policy lives in policy.csv next to rbac_model.conf; handlers consult it
// for mutating routes, the authentication middleware never does.
type Authorizer struct {
	enforcer *casbin.Enforcer
	logger   *logrus.Logger
}

func NewAuthorizer(modelPath, policyPath string, logger *logrus.Logger) (*Authorizer, error) {
	enforcer, err := casbin.NewEnforcerSafe(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	return &Authorizer{
		enforcer: enforcer,
		logger:   logger,
	}, nil
}

func (authorizer *Authorizer) Allowed(role, path, method string) bool {
	allowed, err := authorizer.enforcer.EnforceSafe(role, path, method)
	if err != nil {
		authorizer.logger.Errorf("enforce error: %s", err)
		return false
	}
	return allowed
}
