//go:build stm32h7rs

package rcc

var Target = H7RS
