// Package tx 事务边界接口
package tx

import "context"

// Manager 事务管理器
// fn内通过ctx执行的所有仓储操作处于同一事务；fn返回error则回滚
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
