package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const defaultConfigRelPath = "configs/conf.yml"

// Options 控制加载行为。
type Options struct {
	// EnvPrefix 非空时开启环境变量覆盖，例如 CIV_GAME_SERVER_PORT。
	EnvPrefix string
	// OnChange 非空时开启热加载，文件变更后回调最新的 viper 实例。
	OnChange func(v *viper.Viper)
}

// Load 把配置解码到 out 并做校验。
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, out any, opt Options) (*viper.Viper, error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return nil, err
	}
	return load(path, out, opt)
}

// Resolve 返回实际使用的配置文件路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", defaultConfigRelPath, startDir)
		}
		dir = parent
	}
}
