package serverconfig

import (
	"log"
	"os"

	"Civilization/internal/shared/config"

	"github.com/spf13/viper"
)

const envPrefix = "CIV"

var Conf Config

// Load 加载 configs/conf.yml；onChange 非空时热加载，回调里拿到的是新解码的副本，Conf 本身不改。
func Load(cfgName string, onChange func(Config)) error {
	opt := config.Options{EnvPrefix: envPrefix}
	if onChange != nil {
		opt.OnChange = func(v *viper.Viper) {
			var next Config
			if err := config.Decode(v, &next); err != nil {
				log.Println("配置热加载失败:", err)
				return
			}
			onChange(next)
		}
	}
	if _, err := config.Load(cfgName, &Conf, opt); err != nil {
		return err
	}
	applyDefaults(&Conf)
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && Conf.Security.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.Security.JWTSecret)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.GameServer.AskTimeoutMS == 0 {
		c.GameServer.AskTimeoutMS = 3000
	}
	if c.GameServer.FlushEveryMS == 0 {
		c.GameServer.FlushEveryMS = 3000
	}
	if c.GameServer.IdleTimeoutS == 0 {
		c.GameServer.IdleTimeoutS = 600
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.MySQL.Charset == "" {
		c.MySQL.Charset = "utf8mb4"
	}
}
