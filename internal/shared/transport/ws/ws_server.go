package ws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"Civilization/internal/shared/codec"
	"Civilization/internal/shared/security"
	"Civilization/internal/shared/transport"
	"Civilization/internal/shared/utils"
	"Civilization/modules/kit/logx"
)

const outQueueSize = 1000

// Options 单连接的传输选项。
type Options struct {
	// NeedSecret 为 true 时握手下发 AES 密钥，之后的帧都加密。
	NeedSecret bool
	// RateLimit 每秒请求数，<=0 不限。
	RateLimit float64
	RateBurst int
}

type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
	log       logx.Logger
	opts      Options
	limiter   *rate.Limiter
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger, opts Options) *WsServer {
	s := &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
		opts:     opts,
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, opts.RateBurst))
	}
	return s
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送；连接已关闭时丢弃。
func (s *WsServer) Push(name string, data any) {
	s.enqueue(newPush(name, data))
}

func (s *WsServer) enqueue(resp *WsMsgResp) {
	select {
	case <-s.done:
	case s.outChan <- resp:
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("ws_server read msg", zap.Error(err))
			return
		}
		reqBody, ok := s.decodeFrame(data)
		if !ok {
			continue
		}

		req := &WsMsgReq{Body: reqBody, Conn: s}
		resp := NewResp(reqBody)
		switch {
		case reqBody.Name == HeartbeatMsg:
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.OK(h)
		case s.limiter != nil && !s.limiter.Allow():
			resp.Fail(transport.RateLimited, RateLimitedMsg)
		default:
			s.router.Dispatch(req, resp)
		}
		s.enqueue(resp)
	}
}

// decodeFrame 解压 -> (解密) -> json。
func (s *WsServer) decodeFrame(data []byte) (*ReqBody, bool) {
	plain, err := codec.Decompress(data)
	if err != nil {
		s.log.Warn("ws_server readMsgLoop unzip", zap.Error(err))
		return nil, false
	}
	if s.opts.NeedSecret {
		key, _ := s.GetProperty(SecretKey).(string)
		if key == "" {
			s.handshake()
			return nil, false
		}
		plain, err = security.AesCBCDecrypt(plain, []byte(key))
		if err != nil {
			s.log.Warn("ws_server readMsgLoop decrypt error", zap.Error(err))
			// 出错后重新握手
			s.handshake()
			return nil, false
		}
	}
	// 数字保留为 json.Number，避免大整数（种子）丢精度
	dec := json.NewDecoder(bytes.NewReader(plain))
	dec.UseNumber()
	reqBody := &ReqBody{}
	if err := dec.Decode(reqBody); err != nil {
		s.log.Warn("ws_server readMsgLoop unmarshal json error", zap.Error(err))
		return nil, false
	}
	return reqBody, true
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) {
	data, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return
	}
	if s.opts.NeedSecret {
		key, _ := s.GetProperty(SecretKey).(string)
		if key == "" {
			s.log.Warn("ws_server write without secretKey", zap.String("name", msg.Body.Name))
			return
		}
		if data, err = security.AesCBCEncrypt(data, []byte(key)); err != nil {
			s.log.Error("ws_server write encrypt error", zap.Error(err))
			return
		}
	}
	s.writeFrame(data)
}

// writeFrame 压缩后的字节流必须走 BinaryMessage。
func (s *WsServer) writeFrame(data []byte) {
	zipped, err := codec.Compress(data)
	if err != nil {
		s.log.Error("ws_server write zip error", zap.Error(err))
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, zipped); err != nil {
		s.log.Debug("ws_server write error", zap.Error(err))
	}
}

// handshake 明文下发密钥；不加密模式下密钥为空。
func (s *WsServer) handshake() {
	secretKey := ""
	if s.opts.NeedSecret {
		if key, _ := s.GetProperty(SecretKey).(string); key != "" {
			secretKey = key
		} else {
			secretKey = utils.RandSeq(16)
			s.SetProperty(SecretKey, secretKey)
		}
	}

	data, err := json.Marshal(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: secretKey}})
	if err != nil {
		s.log.Error("ws_server handshake marshal json error", zap.Error(err))
		return
	}
	s.writeFrame(data)
}
