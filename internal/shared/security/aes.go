package security

import "github.com/go-think/openssl"

// AesCBCEncrypt ws 帧加密，key 同时作为 iv，与客户端约定零填充。
func AesCBCEncrypt(src, key []byte) ([]byte, error) {
	return openssl.AesCBCEncrypt(src, key, key, openssl.ZEROS_PADDING)
}

func AesCBCDecrypt(src, key []byte) ([]byte, error) {
	return openssl.AesCBCDecrypt(src, key, key, openssl.ZEROS_PADDING)
}
