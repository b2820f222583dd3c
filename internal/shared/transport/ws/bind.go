package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// BindJSON 把 WsMsgReq.Body.Msg（json 解出来的 map）按 json 标签解码到目标结构体。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
