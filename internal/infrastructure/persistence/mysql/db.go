package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookoutlet/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. 配置连接池
// 2. debug模式打印SQL
// 3. 按配置自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("数据库连接成功", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 生产环境应使用版本化的迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&UserProfileModel{},
		&BookModel{},
		&ReviewModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ContactMessageModel{},
	)
}

// UserModel GORM用户模型
type UserModel struct {
	ID        uint              `gorm:"primaryKey"`
	Email     string            `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string            `gorm:"size:255;not null;comment:密码(bcrypt)"`
	Nickname  string            `gorm:"size:50;not null;comment:昵称"`
	Profile   *UserProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// UserProfileModel 用户资料,与users一对一
type UserProfileModel struct {
	ID             uint       `gorm:"primaryKey"`
	UserID         uint       `gorm:"uniqueIndex;not null"`
	Bio            string     `gorm:"size:500"`
	Location       string     `gorm:"size:30"`
	FavoriteGenres string     `gorm:"size:200"`
	BirthDate      *time.Time `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// BookModel GORM图书模型
// 1. price使用decimal(8,2),默认0
// 2. rating为派生字段,decimal(2,1)可空
type BookModel struct {
	ID              uint                `gorm:"primaryKey"`
	Title           string              `gorm:"index:idx_search;size:100;not null;comment:书名"`
	Author          string              `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Genre           string              `gorm:"index;size:50;comment:类型"`
	ISBN            string              `gorm:"column:isbn;size:13;comment:ISBN"`
	Description     string              `gorm:"type:text"`
	Price           decimal.Decimal     `gorm:"type:decimal(8,2);not null;default:0;index:idx_price;comment:价格"`
	Rating          decimal.NullDecimal `gorm:"type:decimal(2,1);comment:平均评分"`
	CopiesAvailable int                 `gorm:"not null;default:0;comment:库存数量"`
	IsFeatured      bool                `gorm:"not null;default:false"`
	PublicationDate *time.Time          `gorm:"type:date"`
	CoverImage      string              `gorm:"size:100"`
	CreatedBy       *uint               `gorm:"index;comment:发布者用户ID"`
	Reviews         []ReviewModel       `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"index"`
	UpdatedAt       time.Time
}

func (BookModel) TableName() string {
	return "books"
}

// ReviewModel 书评,(book_id, user_id)唯一
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"uniqueIndex:uk_review_book_user;not null"`
	UserID    uint      `gorm:"uniqueIndex:uk_review_book_user;index;not null"`
	Rating    int       `gorm:"type:tinyint;not null"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// CartModel 购物车,每个用户一个
type CartModel struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"uniqueIndex;not null"`
	Items     []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel 购物车条目,(cart_id, book_id)唯一
type CartItemModel struct {
	ID       uint      `gorm:"primaryKey"`
	CartID   uint      `gorm:"uniqueIndex:uk_cart_book;not null"`
	BookID   uint      `gorm:"uniqueIndex:uk_cart_book;not null"`
	Quantity int       `gorm:"not null;default:1"`
	AddedAt  time.Time `gorm:"not null"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
type OrderModel struct {
	ID              uint             `gorm:"primaryKey"`
	OrderNo         string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID          uint             `gorm:"index;not null"`
	TotalAmount     decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	Status          string           `gorm:"index;size:20;not null;default:pending"`
	ShippingAddress string           `gorm:"type:text"`
	PaymentStatus   bool             `gorm:"not null;default:false"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `gorm:"index"`
	UpdatedAt       time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 订单明细,price为下单时单价快照
type OrderItemModel struct {
	ID       uint            `gorm:"primaryKey"`
	OrderID  uint            `gorm:"index;not null"`
	BookID   uint            `gorm:"index;not null"`
	Quantity int             `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(8,2);not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// ContactMessageModel 访客留言
type ContactMessageModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:200;not null"`
	Email       string `gorm:"size:254;not null"`
	VerifyEmail string `gorm:"size:254;not null"`
	Text        string `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

func (ContactMessageModel) TableName() string {
	return "contact_messages"
}
