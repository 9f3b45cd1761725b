package service

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 引用的实体不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrForbidden 调用者不是被修改实体的拥有者
	ErrForbidden = errors.New("无权操作该资源")
	// ErrValidation 输入不满足基本的格式/长度约束
	ErrValidation = errors.New("参数校验失败")
	// ErrConflictIgnored 开关操作发现了多余的重复行，已全部删除，不算失败
	ErrConflictIgnored = errors.New("发现重复的互动记录，已全部清理")
)

// ValidationError 携带出错的字段，errors.Is(err, ErrValidation)成立
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// notFoundOr 把gorm的“没找到”统一翻译成ErrNotFound，其他错误原样返回
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// IsDuplicate 唯一索引冲突：开了TranslateError时是gorm.ErrDuplicatedKey，没开时是MySQL的1062
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// IsForeignKeyViolation 外键约束失败：引用的行不存在，重试也不会成功
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && (mysqlErr.Number == 1451 || mysqlErr.Number == 1452)
}
