package security

import (
	"bytes"
	"testing"
)

func TestAesCBC_加解密往返(t *testing.T) {
	key := []byte("0123456789abcdef")
	src := []byte(`{"seq":1,"name":"game.state","msg":{"game_id":7}}`)
	enc, err := AesCBCEncrypt(src, key)
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}
	if bytes.Equal(enc, src) {
		t.Fatalf("密文不应等于明文")
	}
	dec, err := AesCBCDecrypt(enc, key)
	if err != nil {
		t.Fatalf("解密失败: %v", err)
	}
	if !bytes.Equal(dec, src) {
		t.Fatalf("解密结果不符: %q", dec)
	}
}
