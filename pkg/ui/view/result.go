package view

// ResultKind classifies the outcome of delivering a message.
type ResultKind uint8

const (
	// ResultNop means the message was handled with nothing further to do.
	ResultNop ResultKind = iota
	// ResultAction carries an action for the enclosing handler.
	ResultAction
	// ResultRequestRebuild means local state changed and a new frame is due.
	ResultRequestRebuild
	// ResultStale means the addressed node no longer exists.
	ResultStale
)

func (k ResultKind) String() string {
	switch k {
	case ResultNop:
		return "nop"
	case ResultAction:
		return "action"
	case ResultRequestRebuild:
		return "request_rebuild"
	case ResultStale:
		return "stale"
	default:
		return "unknown"
	}
}

// MessageResult is returned by View.Message.
type MessageResult[A any] struct {
	Kind ResultKind
	// Action is set when Kind is ResultAction.
	Action A
	// Message is the undelivered message when Kind is ResultStale.
	Message any
}

// Nop reports a handled message.
func Nop[A any]() MessageResult[A] {
	return MessageResult[A]{Kind: ResultNop}
}

// Action reports an action for the parent.
func Action[A any](a A) MessageResult[A] {
	return MessageResult[A]{Kind: ResultAction, Action: a}
}

// RequestRebuild asks for a new frame without producing an action.
func RequestRebuild[A any]() MessageResult[A] {
	return MessageResult[A]{Kind: ResultRequestRebuild}
}

// Stale reports that msg could not be delivered.
func Stale[A any](msg any) MessageResult[A] {
	return MessageResult[A]{Kind: ResultStale, Message: msg}
}

// MapResult converts the action of r with f and passes the other kinds
// through unchanged.
func MapResult[A, B any](r MessageResult[A], f func(A) B) MessageResult[B] {
	out := MessageResult[B]{Kind: r.Kind, Message: r.Message}
	if r.Kind == ResultAction {
		out.Action = f(r.Action)
	}
	return out
}
