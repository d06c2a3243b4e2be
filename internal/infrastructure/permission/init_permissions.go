package permission

import (
	"fmt"

	"harvestcycle/internal/shared/authorization"
)

// defaultPolicies grants administrators control over fresh-swap requests.
var defaultPolicies = [][]string{
	{string(authorization.RoleAdmin), authorization.ResourceReplacementRequests, authorization.ActionManage},
}

// InitDefaultPolicies adds the built-in policies. Existing rows are left alone.
func (e *Enforcer) InitDefaultPolicies() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, policy := range defaultPolicies {
		// AddPolicy reports false without error when the rule already exists.
		if _, err := e.enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			e.logger.Errorw("failed to add default policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	e.logger.Infow("default permissions initialized", "count", len(defaultPolicies))
	return nil
}
