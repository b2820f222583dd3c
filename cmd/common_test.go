package cmd

import (
	"testing"

	"Civilization/internal/shared/logs"
	"Civilization/internal/shared/serverconfig"

	"go.uber.org/zap"
)

func TestReadConfig(t *testing.T) {
	t.Setenv("CIV_LOG_FILE_DIR", t.TempDir())
	if err := serverconfig.Load("", nil); err != nil {
		t.Fatalf("读取 configs/conf.yml 失败: %v", err)
	}
	if serverconfig.Conf.GameServer.Port == 0 {
		t.Fatalf("game_server.port 未解码")
	}
	if err := logs.Init("TestReadConfig", serverconfig.Conf.Log); err != nil {
		t.Fatalf("初始化日志失败: %v", err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))
}
