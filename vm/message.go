package vm

import "fmt"

type MessageType int

const (
	_ MessageType = iota
	MsgDebug
	MsgError
	MsgInput
	MsgAwaitInput
	MsgOutput
	MsgHalt
	MsgReset
)

func (mt MessageType) String() string {
	switch mt {
	case MsgDebug:
		return "Debug"
	case MsgError:
		return "Error"
	case MsgInput:
		return "Input"
	case MsgAwaitInput:
		return "Await Input"
	case MsgOutput:
		return "Output"
	case MsgHalt:
		return "Halt"
	case MsgReset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// Message is an event emitted by a machine on its messages channel.
type Message struct {
	Type    MessageType
	PC      int64 // Address of the instruction that emitted the message.
	Value   int64 // Input or output value, if any.
	Message string
}

func NewMessage(mt MessageType, pc, value int64, msg string) Message {
	return Message{
		Type:    mt,
		PC:      pc,
		Value:   value,
		Message: msg,
	}
}

func (msg Message) String() string {
	return fmt.Sprintf("[%04d] %s: %s", msg.PC, msg.Type, msg.Message)
}
