// Package memory 内存存储,实现全部仓储接口与事务管理器
// 用于database.driver=memory的本地运行与测试
//
// 所有读写在一把互斥锁下执行,事务期间持有该锁,
// fn返回错误时整体恢复到事务开始前的快照
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/contact"
	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
)

type txKey struct{}

// Store 内存数据库
type Store struct {
	mu   sync.Mutex
	data *tables
	now  func() time.Time
}

type tables struct {
	seq       map[string]uint
	users     map[uint]user.User
	profiles  map[uint]user.Profile
	books     map[uint]book.Book
	reviews   map[uint]review.Review
	carts     map[uint]cart.Cart
	cartItems map[uint]cart.CartItem
	orders    map[uint]order.Order
	contacts  map[uint]contact.Message
}

// NewStore 创建空的内存数据库
func NewStore() *Store {
	return &Store{
		data: newTables(),
		now:  time.Now,
	}
}

func newTables() *tables {
	return &tables{
		seq:       make(map[string]uint),
		users:     make(map[uint]user.User),
		profiles:  make(map[uint]user.Profile),
		books:     make(map[uint]book.Book),
		reviews:   make(map[uint]review.Review),
		carts:     make(map[uint]cart.Cart),
		cartItems: make(map[uint]cart.CartItem),
		orders:    make(map[uint]order.Order),
		contacts:  make(map[uint]contact.Message),
	}
}

// clone 表级拷贝,订单明细切片单独复制
func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.seq {
		c.seq[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.profiles {
		c.profiles[k] = v
	}
	for k, v := range t.books {
		c.books[k] = v
	}
	for k, v := range t.reviews {
		c.reviews[k] = v
	}
	for k, v := range t.carts {
		c.carts[k] = v
	}
	for k, v := range t.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range t.orders {
		v.Items = append([]order.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range t.contacts {
		c.contacts[k] = v
	}
	return c
}

func (t *tables) nextID(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

// Transaction 实现tx.Manager
// 嵌套调用直接复用外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock 事务内已持有锁时不再加锁
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Books 图书仓储
func (s *Store) Books() book.Repository { return &bookRepository{s: s} }

// Reviews 评论仓储
func (s *Store) Reviews() review.Repository { return &reviewRepository{s: s} }

// Carts 购物车仓储
func (s *Store) Carts() cart.Repository { return &cartRepository{s: s} }

// Orders 订单仓储
func (s *Store) Orders() order.Repository { return &orderRepository{s: s} }

// Users 用户仓储
func (s *Store) Users() user.Repository { return &userRepository{s: s} }

// Profiles 用户资料仓储
func (s *Store) Profiles() user.ProfileRepository { return &profileRepository{s: s} }

// Contacts 留言仓储
func (s *Store) Contacts() contact.Repository { return &contactRepository{s: s} }
