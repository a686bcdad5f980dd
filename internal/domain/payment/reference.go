package payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateReference 生成商户单号
// 格式: P(租金)/F(罚款) + 借阅ID + 12位随机串,例如 P-42-1f0c2a9b7e3d
// 长度控制在50以内(网关order_id的上限)
func GenerateReference(borrowingID uint, typ Type) string {
	prefix := "P"
	if typ == TypeFine {
		prefix = "F"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s", prefix, borrowingID, random)
}
