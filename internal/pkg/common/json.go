package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

// DecodeJSONStrict 使用統一設定解析 JSON，禁止未知欄位
func DecodeJSONStrict(r io.Reader, v interface{}) error {
	return decodeJSON(r, v, true)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
