//go:build stm32h72x

package rcc

var Target = H72x
