package clova

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"
)

// Sign computes the NCP API gateway signature:
// base64(HMAC-SHA256(secretKey, METHOD + " " + PATH + "\n" + TIMESTAMP + "\n" + ACCESS_KEY)).
func Sign(method, path, timestamp, accessKey, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(method))
	mac.Write([]byte(" "))
	mac.Write([]byte(path))
	mac.Write([]byte("\n"))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("\n"))
	mac.Write([]byte(accessKey))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Timestamp formats t as epoch milliseconds, the form the gateway expects.
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
