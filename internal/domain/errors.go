package domain

import "fmt"

// 错误分类：业务层只产出这些类型，由 response 层统一映射 HTTP 语义

// ValidationError 入参不合法（畸形 id、空载荷、全部 id 无效），未触达数据库
type ValidationError struct {
	Msg        string
	InvalidIDs []string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }

// NotFoundError 单实体查询零行，或生命周期转换时状态不匹配（已删再删/已活再恢复）
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error { return &NotFoundError{Resource: resource, ID: id} }

// UnauthorizedError 缺少主体
type UnauthorizedError struct{ Msg string }

func (e *UnauthorizedError) Error() string { return e.Msg }

func Unauthorized(msg string) error { return &UnauthorizedError{Msg: msg} }

// ForbiddenError 非 owner 且非 admin
type ForbiddenError struct{ Msg string }

func (e *ForbiddenError) Error() string { return e.Msg }

func Forbidden(msg string) error { return &ForbiddenError{Msg: msg} }

// ConflictError 唯一键冲突，附带已存在的记录
type ConflictError struct {
	Msg      string
	Existing any
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflict(msg string, existing any) error { return &ConflictError{Msg: msg, Existing: existing} }

// DatastoreError 底层 I/O 错误，带上操作上下文
type DatastoreError struct {
	Op  string
	Err error
}

func (e *DatastoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *DatastoreError) Unwrap() error { return e.Err }

func Datastore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatastoreError{Op: op, Err: err}
}
