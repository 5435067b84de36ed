package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNo 生成订单号
// 格式: ORD + yyyymmddHHMMSS + 12位随机十六进制(取自UUIDv4)
// 示例: ORD20240105093012A1B2C3D4E5F6
// 唯一性由orders.order_no唯一索引保证,冲突时由调用方重试
func GenerateOrderNo(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD" + now.Format("20060102150405") + strings.ToUpper(random[:12])
}
