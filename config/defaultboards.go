package config

// Embedded board topologies. Key: board name. Val: raw YAML.

const boardNucleoH743 = `
family: stm32h7
hse: {freq: 8MHz, mode: bypass}
hsi48: true
pll1: {source: hse, prediv: 1, mul: 120, p: 2, q: 20, r: 2}
sys: pll1_p
core_div: 1
ahb_div: 2
apb: [2, 2, 2, 2]
scale: scale0
mux:
  usb: hsi48
  spi123: pll1_q
`

const boardNucleoH723 = `
family: stm32h72x
hse: {freq: 8MHz, mode: bypass}
hsi48: true
pll1: {source: hse, prediv: 1, mul: 65, p: 1, q: 13}
sys: pll1_p
ahb_div: 2
apb: [2, 2, 2, 2]
scale: scale0
supply: {mode: ldo}
mux:
  usb: hsi48
`

const boardNucleoH7A3 = `
family: stm32h7ab
hse: {freq: 8MHz, mode: bypass}
hsi48: true
pll1: {source: hse, prediv: 1, mul: 70, p: 2, q: 10}
sys: pll1_p
apb: [2, 2, 2, 2]
scale: scale0
supply: {mode: direct_smps}
`

const boardNucleoH563 = `
family: stm32h5
hse: {freq: 8MHz, mode: bypass_digital}
hsi48: true
pll1: {source: hse, prediv: 2, mul: 125, p: 2, q: 10}
sys: pll1_p
scale: scale0
mux:
  usb: hsi48
`

const boardNucleoH7S3 = `
family: stm32h7rs
hse: {freq: 24MHz}
hsi48: true
pll1: {source: hse, prediv: 3, mul: 150, p: 2, q: 25}
sys: pll1_p
core_div: 1
ahb_div: 2
apb: [2, 2, 1, 2, 2]
scale: high
supply: {mode: direct_smps}
`

// boardHSI runs an H7 from the internal oscillator only.
const boardHSI = `
family: stm32h7
hsi: 1
hsi48: true
sys: hsi
scale: scale2
`

var embeddedBoards = map[string][]byte{
	"nucleo-h743zi": []byte(boardNucleoH743),
	"nucleo-h723zg": []byte(boardNucleoH723),
	"nucleo-h7a3zi": []byte(boardNucleoH7A3),
	"nucleo-h563zi": []byte(boardNucleoH563),
	"nucleo-h7s3l8": []byte(boardNucleoH7S3),
	"h7-hsi":        []byte(boardHSI),
}
