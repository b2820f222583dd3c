package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sampleConf struct {
	Server struct {
		Host string `mapstructure:"host" validate:"required"`
		Port int    `mapstructure:"port" validate:"min=1,max=65535"`
	} `mapstructure:"server"`
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	return path
}

func TestLoad_解码并校验(t *testing.T) {
	path := writeConf(t, "server:\n  host: 127.0.0.1\n  port: 8080\n")
	var c sampleConf
	if _, err := Load(path, &c, Options{}); err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if c.Server.Host != "127.0.0.1" || c.Server.Port != 8080 {
		t.Fatalf("解码结果不符: %+v", c)
	}
}

func TestLoad_校验失败返回字段信息(t *testing.T) {
	path := writeConf(t, "server:\n  host: 127.0.0.1\n  port: 70000\n")
	var c sampleConf
	_, err := Load(path, &c, Options{})
	if err == nil {
		t.Fatalf("端口越界应该校验失败")
	}
	if !strings.Contains(err.Error(), "Port") {
		t.Fatalf("错误信息应包含字段名: %v", err)
	}
}

func TestLoad_环境变量覆盖文件(t *testing.T) {
	path := writeConf(t, "server:\n  host: 127.0.0.1\n  port: 8080\n")
	t.Setenv("CIVTEST_SERVER_PORT", "9090")
	var c sampleConf
	if _, err := Load(path, &c, Options{EnvPrefix: "CIVTEST"}); err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("环境变量未生效: port=%d", c.Server.Port)
	}
}

func TestLoad_文件不存在(t *testing.T) {
	var c sampleConf
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml"), &c, Options{}); err == nil {
		t.Fatalf("文件不存在应该报错")
	}
}
