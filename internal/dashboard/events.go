package dashboard

import "time"

// ChangeEvent describes one mutation of a client-local list.
type ChangeEvent struct {
	List   string    `json:"list"`   // "portfolio", "watchlist", "activity" or "settings"
	Action string    `json:"action"` // "add", "remove", "clear" or "update"
	ID     string    `json:"id,omitempty"`
	Data   any       `json:"data,omitempty"`
	At     time.Time `json:"at"`
}

// ChangeFunc receives change events. It is called after the list's lock
// is released and must not block.
type ChangeFunc func(ChangeEvent)

// notifier holds an optional ChangeFunc.
type notifier struct {
	fn ChangeFunc
}

func (n *notifier) emit(list, action, id string, data any) {
	if n.fn == nil {
		return
	}
	n.fn(ChangeEvent{List: list, Action: action, ID: id, Data: data, At: time.Now()})
}
