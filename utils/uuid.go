package utils

import (
	"encoding/hex"

	uuid "github.com/satori/go.uuid"
)

// 生成uuid(v4)，标准的带'-'格式
func NewId() string {
	return uuid.NewV4().String()
}

// 生成uuid，32位hex字符串，没有'-'
func GenUuid() string {
	u := uuid.NewV4()
	return hex.EncodeToString(u.Bytes())
}
