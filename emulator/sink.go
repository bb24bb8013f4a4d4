package emulator

import (
	"log"

	"github.com/ezrec/toy/cpu"
)

// LogSink writes trace events to the standard logger.
type LogSink struct {
	Program *cpu.Program // Listing used to annotate fetches with source lines.
}

var _ cpu.Sink = LogSink{}

func (ls LogSink) Trace(ev cpu.Event) {
	switch ev.Kind {
	case cpu.EVENT_FETCH:
		if ls.Program != nil {
			if dbg := ls.Program.Debug(ev.Pc); dbg.Opcode != nil {
				log.Printf("%02x: %04x %-16v ; %d: %v", ev.Pc, cpu.Word(ev.Code), ev.Code, dbg.LineNo, dbg.Words)
				return
			}
		}
		log.Printf("%02x: %04x %v", ev.Pc, cpu.Word(ev.Code), ev.Code)
	case cpu.EVENT_READ, cpu.EVENT_WRITE:
		log.Printf("%02x:   %v [%02x] %04x", ev.Pc, ev.Kind, ev.Addr, ev.Value)
	case cpu.EVENT_INPUT, cpu.EVENT_OUTPUT:
		log.Printf("%02x:   %v %04x (%d)", ev.Pc, ev.Kind, ev.Value, ev.Signed)
	case cpu.EVENT_HALT:
		if ev.Halt.Err != nil {
			log.Printf("%02x: %v", ev.Pc, f("%v: %v", ev.Halt.Reason, ev.Halt.Err))
		} else {
			log.Printf("%02x: %v", ev.Pc, ev.Halt.Reason)
		}
	}
}
