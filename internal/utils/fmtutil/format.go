// Package fmtutil provides formatting utilities for human-readable output.
// Package fmtutil 提供用于人类可读输出的格式化工具。
package fmtutil

import "fmt"

// FormatCount formats large counts with K/M/G suffixes.
// FormatCount 使用 K/M/G 后缀格式化大数字。
func FormatCount(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.2fK", float64(n)/1000)
	}
	if n < 1000000000 {
		return fmt.Sprintf("%.2fM", float64(n)/1000000)
	}
	return fmt.Sprintf("%.2fG", float64(n)/1000000000)
}

// FormatBytes formats bytes to human readable format.
// FormatBytes 将字节格式化为可读格式。
func FormatBytes(b uint64) string {
	if b < 1024 {
		return fmt.Sprintf("%dB", b)
	}
	if b < 1048576 {
		return fmt.Sprintf("%.2fKB", float64(b)/1024)
	}
	if b < 1073741824 {
		return fmt.Sprintf("%.2fMB", float64(b)/1048576)
	}
	return fmt.Sprintf("%.2fGB", float64(b)/1073741824)
}
