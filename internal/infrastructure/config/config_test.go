package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 8081
  mode: test
database:
  driver: memory
jwt:
  secret: test-secret
payment:
  provider: mock
  success_url: http://localhost:8081/api/v1/payments/success
  cancel_url: http://localhost:8081/api/v1/payments/cancel
scheduler:
  sweep_interval: 30s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.SweepInterval)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.ReportInterval, "未配置的字段使用默认值")
	assert.Equal(t, uint32(5), cfg.Breaker.MaxFailures)
	assert.Equal(t, ":8081", cfg.Server.Addr())
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv("BOOKRENTAL_SERVER_PORT", "9090")
	t.Setenv("BOOKRENTAL_PAYMENT_SERVER_KEY", "SB-Mid-server-xxx")

	cfg, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "SB-Mid-server-xxx", cfg.Payment.ServerKey)
}

func TestLoadFile_Validation(t *testing.T) {
	bad := `
server:
  port: 70000
database:
  driver: sqlite
jwt:
  secret: ""
payment:
  provider: midtrans
`
	_, err := LoadFile(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "无效的服务端口")
	assert.Contains(t, err.Error(), "不支持的数据库驱动")
	assert.Contains(t, err.Error(), "payment.server_key不能为空")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "127.0.0.1", Port: 3306,
		DBName: "bookrental", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:pw@tcp(127.0.0.1:3306)/bookrental?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		d.DSN())
}
