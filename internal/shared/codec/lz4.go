package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Compress 用 lz4 帧格式压缩。
func Compress(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	zw := lz4.NewWriter(buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func Decompress(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// MarshalCompressed JSON 编码后压缩，持久化大字段用。
func MarshalCompressed(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Compress(raw)
}

func UnmarshalCompressed(data []byte, v any) error {
	raw, err := Decompress(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
