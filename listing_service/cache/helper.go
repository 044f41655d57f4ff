package cache

import (
	"fmt"
)

const (
	cacheSession = "draft:%s"
)

func constructKey(sessionId string) string {
	return fmt.Sprintf(cacheSession, sessionId)
}
