package server

import "net"

// LanIP returns the machine's primary outbound IPv4 address, or "" if it
// cannot be determined. Dialing UDP does not send any packets; it only
// asks the kernel which interface would route the traffic.
func LanIP() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}
