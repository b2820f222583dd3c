package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"Civilization/internal/shared/serverconfig"
	"Civilization/modules/kit/errx"
)

const defaultConnectTimeout = 3 * time.Second

// Store 一个客户端加配置里指定的库。
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zap.Logger
}

// Open 连接、ping，确认可用后返回；ping 失败会断开连接。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*Store, error) {
	if l == nil {
		l = zap.NewNop()
	}
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errx.ErrInvalidParam.WithReason("mongodb uri and database are required")
	}
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("civilization-game").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).WithData("uri", redact(cfg.URI))
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errx.ErrUnavailable.WithCause(err).WithData("uri", redact(cfg.URI))
	}

	l.Info("mongodb connected", zap.String("database", cfg.Database), zap.Duration("timeout", timeout))
	return &Store{Client: client, DB: client.Database(cfg.Database), log: l}, nil
}

func (s *Store) Close(ctx context.Context) {
	if s == nil || s.Client == nil {
		return
	}
	if err := s.Client.Disconnect(ctx); err != nil {
		s.log.Warn("mongodb disconnect failed", zap.Error(err))
	}
}

// redact 去掉 uri 里的账号密码再打日志。
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if _, host, ok := strings.Cut(rest, "@"); ok {
		return scheme + "://***@" + host
	}
	return uri
}
