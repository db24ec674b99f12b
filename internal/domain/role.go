package domain

// Role 角色标签，替代散落各处的 role == "admin" 字符串判断
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Permission 动作权限
type Permission string

const (
	PermReadDeleted      Permission = "read_deleted"      // 查看软删投影
	PermHardDelete       Permission = "hard_delete"       // 物理删除
	PermRecoverAny       Permission = "recover_any"       // 恢复任意实体
	PermMutateAny        Permission = "mutate_any"        // 改/删非本人资源
	PermManageCategories Permission = "manage_categories" // 分类增删改
)

var rolePerms = map[Role]map[Permission]struct{}{
	RoleAdmin: {
		PermReadDeleted:      {},
		PermHardDelete:       {},
		PermRecoverAny:       {},
		PermMutateAny:        {},
		PermManageCategories: {},
	},
	RoleUser: {},
}

// Can 统一权限入口
func (r Role) Can(p Permission) bool {
	perms, ok := rolePerms[r]
	if !ok {
		return false
	}
	_, ok = perms[p]
	return ok
}

// Principal 已认证主体；匿名请求没有 Principal
type Principal struct {
	ID   string
	Role Role
}

// Privileged 是否解锁特权投影
func (p *Principal) Privileged() bool { return p != nil && p.Role.Can(PermReadDeleted) }

// Owns 是否本人资源（admin 视同拥有）
func (p *Principal) Owns(ownerID string) bool {
	if p == nil {
		return false
	}
	return p.ID == ownerID || p.Role.Can(PermMutateAny)
}
