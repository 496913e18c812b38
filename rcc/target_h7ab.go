//go:build stm32h7ab

package rcc

var Target = H7AB
