//go:build stm32h5

package rcc

var Target = H5
