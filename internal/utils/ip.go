package utils

import "net"

// GetLocalIP 返回本机第一个非 loopback 的 IPv4 地址，取不到时返回 "unknown"。
// 只用于 client id 之类的标识场景，不参与任何路由决策。
func GetLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "unknown"
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "unknown"
}
