// Package gameboy wires the CPU, memory bus and peripherals into a
// runnable machine: cartridge/boot ROM loading, the host-facing
// FrameSink/InputSource/DebugWriter interfaces, and the Run loop that
// drives the CPU one instruction at a time until its context is
// cancelled or the CPU locks up on a fatal machine state.
package gameboy

import (
	"context"
	"fmt"
	"io"

	"github.com/slongfield/wolfwig/internal/boot"
	"github.com/slongfield/wolfwig/internal/cartridge"
	"github.com/slongfield/wolfwig/internal/cpu"
	"github.com/slongfield/wolfwig/internal/interrupts"
	"github.com/slongfield/wolfwig/internal/joypad"
	"github.com/slongfield/wolfwig/internal/mmu"
	"github.com/slongfield/wolfwig/internal/ppu"
	"github.com/slongfield/wolfwig/internal/serial"
	"github.com/slongfield/wolfwig/internal/timer"
	"github.com/slongfield/wolfwig/pkg/log"
)

// Palette is the set of palette registers active when a frame was
// delivered, so a host can render 2-bit color indices correctly even
// if BGP/OBP0/OBP1 change between frames.
type Palette struct {
	BGP, OBP0, OBP1 uint8
}

// FrameSink receives completed frames as they're produced, roughly 60
// times a second.
type FrameSink interface {
	Deliver(frame ppu.Frame, palette Palette)
}

// AudioSink is a marker interface reserved for a future APU; Run's
// signature doesn't need to change when one exists. No core component
// currently implements audio generation.
type AudioSink interface {
	audioSink()
}

// NullAudioSink is the default AudioSink: it discards everything.
type NullAudioSink struct{}

func (NullAudioSink) audioSink() {}

// ButtonState is a snapshot of the eight physical buttons.
type ButtonState struct {
	Up, Down, Left, Right bool
	A, B, Start, Select   bool
}

// InputSource is polled once per CPU step for the current button state.
type InputSource interface {
	Poll() ButtonState
}

// NullInputSource reports every button as unpressed. Useful for
// headless runs (e.g. Blargg-style test ROMs) that don't need input.
type NullInputSource struct{}

// Poll always reports no buttons pressed.
func (NullInputSource) Poll() ButtonState { return ButtonState{} }

// ConfigurationError reports a problem discovered while constructing a
// Machine, before Run is ever called: an unreadable or malformed
// cartridge image, a header checksum mismatch, or an unsupported
// cartridge type.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return fmt.Sprintf("gameboy: configuration: %v", e.Err) }
func (e *ConfigurationError) Unwrap() error { return e.Err }

// FatalMachineState reports a condition Run cannot continue past: an
// undefined opcode, most commonly, which locks real hardware up too.
type FatalMachineState struct {
	Err error
}

func (e *FatalMachineState) Error() string { return fmt.Sprintf("gameboy: fatal machine state: %v", e.Err) }
func (e *FatalMachineState) Unwrap() error { return e.Err }

// Options configures a Machine beyond the required cartridge image.
type Options struct {
	// BootROM is an optional 256-byte DMG boot ROM image. If nil,
	// execution starts directly at 0x0100 with registers in their
	// canonical post-boot state.
	BootROM []byte

	FrameSink   FrameSink
	InputSource InputSource

	// DebugWriter, if set, receives every byte shifted out of the
	// serial port with the internal clock bit set: the channel Blargg
	// -style test ROMs use to report PASS/FAIL as plain text.
	DebugWriter io.Writer

	Logger log.Logger
}

// Machine is a fully wired DMG: CPU, bus, and every peripheral.
type Machine struct {
	cpu    *cpu.CPU
	bus    *mmu.Bus
	ppu    *ppu.PPU
	joypad *joypad.State
	serial *serial.Controller

	opts Options
	log  log.Logger
}

// New constructs a Machine from a raw cartridge image and Options. It
// returns a *ConfigurationError if the image is malformed or names an
// unsupported cartridge type.
func New(rom []byte, opts Options) (*Machine, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewNull()
	}
	if opts.InputSource == nil {
		opts.InputSource = NullInputSource{}
	}

	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	var bootROM *boot.ROM
	if opts.BootROM != nil {
		bootROM, err = boot.Load(opts.BootROM)
		if err != nil {
			return nil, &ConfigurationError{Err: err}
		}
	}

	irq := interrupts.New()
	t := timer.New(irq)
	p := ppu.New(irq)
	j := joypad.New(irq)
	s := serial.New(irq)
	if opts.DebugWriter != nil {
		w := opts.DebugWriter
		s.OnByte = func(b byte) { w.Write([]byte{b}) }
	}

	bus := mmu.New(cart, bootROM, irq, p, t, j, s, opts.Logger)
	c := cpu.NewCPU(bus, irq, t, p)

	if bootROM == nil {
		c.PC = 0x0100
		c.SP = 0xFFFE
		c.AF.SetUint16(0x01B0)
		c.BC.SetUint16(0x0013)
		c.DE.SetUint16(0x00D8)
		c.HL.SetUint16(0x014D)
	}

	m := &Machine{cpu: c, bus: bus, ppu: p, joypad: j, serial: s, opts: opts, log: opts.Logger}
	return m, nil
}

// applyInput mirrors a polled ButtonState onto the joypad matrix.
func (m *Machine) applyInput(s ButtonState) {
	m.joypad.SetButton(joypad.ButtonUp, s.Up)
	m.joypad.SetButton(joypad.ButtonDown, s.Down)
	m.joypad.SetButton(joypad.ButtonLeft, s.Left)
	m.joypad.SetButton(joypad.ButtonRight, s.Right)
	m.joypad.SetButton(joypad.ButtonA, s.A)
	m.joypad.SetButton(joypad.ButtonB, s.B)
	m.joypad.SetButton(joypad.ButtonStart, s.Start)
	m.joypad.SetButton(joypad.ButtonSelect, s.Select)
}

// Run drives the machine one CPU step at a time until ctx is cancelled
// or the CPU halts on a fatal machine state. It returns nil on clean
// shutdown and a *FatalMachineState otherwise.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		m.applyInput(m.opts.InputSource.Poll())
		m.cpu.Step()

		if m.cpu.Halted() {
			m.log.Errorf("machine halted: %v", m.cpu.Err())
			return &FatalMachineState{Err: m.cpu.Err()}
		}

		if m.ppu.HasFrame() && m.opts.FrameSink != nil {
			frame := m.ppu.TakeFrame()
			m.opts.FrameSink.Deliver(frame, Palette{
				BGP:  m.ppu.ReadRegister(0xFF47),
				OBP0: m.ppu.ReadRegister(0xFF48),
				OBP1: m.ppu.ReadRegister(0xFF49),
			})
		}
	}
}
