package mongo

import (
	"context"
	"testing"

	"Civilization/internal/shared/serverconfig"
	"Civilization/modules/kit/errx"
)

func TestRedact_隐藏账号密码(t *testing.T) {
	cases := map[string]string{
		"mongodb://root:pw@10.0.0.1:27017/admin": "mongodb://***@10.0.0.1:27017/admin",
		"mongodb://127.0.0.1:27017":              "mongodb://127.0.0.1:27017",
		"not-a-uri":                              "not-a-uri",
	}
	for in, want := range cases {
		if got := redact(in); got != want {
			t.Fatalf("redact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpen_缺少配置(t *testing.T) {
	_, err := Open(context.Background(), serverconfig.MongoDBConfig{URI: "mongodb://127.0.0.1:27017"}, nil)
	if errx.CodeOf(err) != errx.CodeOf(errx.ErrInvalidParam) {
		t.Fatalf("缺少 database 应返回参数错误, got=%v", err)
	}
}
