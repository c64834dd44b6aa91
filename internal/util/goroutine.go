package util

import "runtime"

// GoroutineID parses the current goroutine id from the stack header
// ("goroutine NNN [running]:"). It is only used to recognise a designated
// goroutine, never to schedule work.
func GoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
