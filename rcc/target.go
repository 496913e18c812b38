//go:build !stm32h72x && !stm32h7ab && !stm32h5 && !stm32h7rs

package rcc

// Target is the family the firmware is built for, picked by build tag.
// Untagged builds target STM32H742/743/753/750.
var Target = H7
