// Package config loads board clock topologies from embedded YAML.
//
// A board file names its family and describes the tree:
//
//	family: stm32h7
//	hse: {freq: 8MHz, mode: bypass}
//	pll1: {source: hse, prediv: 1, mul: 120, p: 2, q: 20}
//	sys: pll1_p
//	ahb_div: 2
//	apb: [2, 2, 2, 2]
//	scale: scale0
//
// Overrides are shell-quoted key=value edits applied to the document before
// it is decoded, e.g. `pll1.q=10 "hse.freq=25 MHz"`.
package config

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"clockcode-go/errcode"
	"clockcode-go/rcc"
	"clockcode-go/x/freq"
)

const op = "config"

// EmbeddedBoardLookup allows overriding how board files are resolved.
var EmbeddedBoardLookup = func(name string) ([]byte, bool) {
	b, ok := embeddedBoards[name]
	return b, ok
}

// Boards lists the embedded board names.
func Boards() []string {
	names := make([]string, 0, len(embeddedBoards))
	for n := range embeddedBoards {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Frequency is a frequency written as "25MHz", "32.768kHz" or plain hertz.
type Frequency freq.Hertz

func (f *Frequency) UnmarshalYAML(n *yaml.Node) error {
	v, err := freq.Parse(n.Value)
	if err != nil {
		return err
	}
	*f = Frequency(v)
	return nil
}

func (f Frequency) MarshalYAML() (any, error) { return freq.Hertz(f).String(), nil }

type HSE struct {
	Freq Frequency `yaml:"freq"`
	Mode string    `yaml:"mode,omitempty"`
}

type PLL struct {
	Source string `yaml:"source"`
	PreDiv uint8  `yaml:"prediv"`
	Mul    uint16 `yaml:"mul"`
	P      uint8  `yaml:"p,omitempty"`
	Q      uint8  `yaml:"q,omitempty"`
	R      uint8  `yaml:"r,omitempty"`
	S      uint8  `yaml:"s,omitempty"`
	T      uint8  `yaml:"t,omitempty"`
}

type Supply struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level,omitempty"`
}

// Board is the on-disk form of a topology.
type Board struct {
	Family  string            `yaml:"family"`
	HSI     *uint8            `yaml:"hsi,omitempty"` // divider; 0 is off, omitted is 1
	HSE     *HSE              `yaml:"hse,omitempty"`
	CSI     bool              `yaml:"csi,omitempty"`
	HSI48   bool              `yaml:"hsi48,omitempty"`
	PLL1    *PLL              `yaml:"pll1,omitempty"`
	PLL2    *PLL              `yaml:"pll2,omitempty"`
	PLL3    *PLL              `yaml:"pll3,omitempty"`
	Sys     string            `yaml:"sys"`
	CoreDiv uint16            `yaml:"core_div,omitempty"`
	AHBDiv  uint16            `yaml:"ahb_div,omitempty"`
	APB     []uint8           `yaml:"apb,omitempty"`
	Timer   string            `yaml:"timer,omitempty"`
	Scale   string            `yaml:"scale"`
	Supply  *Supply           `yaml:"supply,omitempty"`
	Boost   bool              `yaml:"cpu_freq_boost,omitempty"`
	Mux     map[string]string `yaml:"mux,omitempty"`
}

// Override sets the value at a dotted key path.
type Override struct {
	Path  []string
	Value string
}

// ParseOverrides splits s with shell quoting into key=value edits.
func ParseOverrides(s string) ([]Override, error) {
	words, err := shlex.Split(s)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, op, err)
	}
	out := make([]Override, 0, len(words))
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		if !ok || k == "" {
			return nil, errcode.New(errcode.InvalidConfig, op, "override "+strconv.Quote(w)+" is not key=value")
		}
		out = append(out, Override{Path: strings.Split(k, "."), Value: v})
	}
	return out, nil
}

// Load resolves an embedded board and applies overrides.
func Load(name string, ov []Override) (rcc.Family, rcc.Topology, error) {
	raw, ok := EmbeddedBoardLookup(name)
	if !ok || len(raw) == 0 {
		return nil, rcc.Topology{}, errcode.New(errcode.UnknownBoard, op, name)
	}
	return Decode(raw, ov)
}

// Decode parses a board document, applies overrides and converts it.
func Decode(raw []byte, ov []Override) (rcc.Family, rcc.Topology, error) {
	b, err := DecodeBoard(raw, ov)
	if err != nil {
		return nil, rcc.Topology{}, err
	}
	return b.Topology()
}

// DecodeBoard parses a board document and applies overrides. Unknown keys
// are rejected.
func DecodeBoard(raw []byte, ov []Override) (*Board, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, op, err)
	}
	if len(ov) > 0 {
		if err := apply(&doc, ov); err != nil {
			return nil, err
		}
		var err error
		if raw, err = yaml.Marshal(&doc); err != nil {
			return nil, errcode.Wrap(errcode.InvalidConfig, op, err)
		}
	}
	var b Board
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, op, err)
	}
	return &b, nil
}

func apply(doc *yaml.Node, ov []Override) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return errcode.New(errcode.InvalidConfig, op, "board document is not a mapping")
	}
	for _, o := range ov {
		var v yaml.Node
		if err := yaml.Unmarshal([]byte(o.Value), &v); err != nil {
			return errcode.Wrap(errcode.InvalidConfig, op, err)
		}
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
		if len(v.Content) == 1 {
			val = v.Content[0]
		}
		m := doc.Content[0]
		for i, key := range o.Path {
			last := i == len(o.Path)-1
			child := lookup(m, key)
			switch {
			case last && child != nil:
				*child = *val
			case last:
				m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, val)
			case child == nil || child.Kind != yaml.MappingNode:
				next := &yaml.Node{Kind: yaml.MappingNode}
				if child != nil {
					*child = *next
					next = child
				} else {
					m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, next)
				}
				m = next
			default:
				m = child
			}
		}
	}
	return nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
