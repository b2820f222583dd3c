package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var validate = validator.New()

func load(configPath string, out any, opt Options) (*viper.Viper, error) {
	if !fileExist(configPath) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}
	// .env 可选，不存在不报错
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	if opt.EnvPrefix != "" {
		v.SetEnvPrefix(opt.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}
	if err := Decode(v, out); err != nil {
		return nil, err
	}

	if opt.OnChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Println("配置文件变更", e.Name)
			opt.OnChange(v)
		})
		v.WatchConfig()
	}
	return v, nil
}

// Decode 解码并按 validate 标签校验。
func Decode(v *viper.Viper, out any) error {
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("viper unmarshal config: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
