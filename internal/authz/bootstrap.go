package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
// viewer 只读，operator 负责订单履约，manager 负责主数据与采购，admin 全量
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "viewer",
			Policies: []Policy{
				{Object: "/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "operator",
			Inherits: []string{"viewer"},
			Policies: []Policy{
				{Object: "/orders", Action: "*"},
				{Object: "/orders/:id", Action: "*"},
				{Object: "/orders/:id/cancel", Action: "POST"},
				{Object: "/shipments", Action: "*"},
				{Object: "/shipments/:id", Action: "*"},
				{Object: "/payments", Action: "*"},
				{Object: "/payments/:id", Action: "*"},
				{Object: "/returns", Action: "*"},
				{Object: "/returns/:id", Action: "*"},
				{Object: "/inventory/adjust", Action: "POST"},
				{Object: "/inventory/transfer", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "manager",
			Inherits: []string{"operator"},
			Policies: []Policy{
				{Object: "/products", Action: "*"},
				{Object: "/products/:id", Action: "*"},
				{Object: "/categories", Action: "*"},
				{Object: "/categories/:id", Action: "*"},
				{Object: "/customers", Action: "*"},
				{Object: "/customers/:id", Action: "*"},
				{Object: "/suppliers", Action: "*"},
				{Object: "/suppliers/:id", Action: "*"},
				{Object: "/warehouses", Action: "*"},
				{Object: "/warehouses/:id", Action: "*"},
				{Object: "/warehouses/:id/zones", Action: "*"},
				{Object: "/purchase-orders", Action: "*"},
				{Object: "/purchase-orders/:id", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role: "admin",
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
