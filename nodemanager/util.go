package nodemanager

import (
	"net"
	"strconv"
	"time"
)

func joinHostPort(host string, port int32) string {
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}

func wallClock() int64 {
	return time.Now().UnixMilli()
}
