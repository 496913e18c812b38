//go:build tinygo

package logx

func emit(line []byte) { println(string(line)) }
