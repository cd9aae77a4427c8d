package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	ctxKeyMessages = "messages"
	ctxKeyKeyboard = "kb"
)

// countingContext wraps tele.Context so the logging middleware can see
// how many messages a handler produced and whether any carried a
// keyboard.
type countingContext struct{ tele.Context }

func (m countingContext) bump(hasKB bool) {
	n := 0
	if v, ok := m.Get(ctxKeyMessages).(int); ok {
		n = v
	}
	m.Set(ctxKeyMessages, n+1)
	if hasKB {
		m.Set(ctxKeyKeyboard, true)
	}
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

// Edits count as responses too.
func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	err := m.Context.Edit(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrSend(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

func (m countingContext) EditOrReply(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrReply(what, opts...)
	if err == nil {
		m.bump(hasKeyboard(opts))
	}
	return err
}

// MessageMetricsMiddleware swaps in a context wrapper that counts
// outgoing messages for the request log line.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(ctxKeyMessages, 0)
		c.Set(ctxKeyKeyboard, false)
		return next(countingContext{Context: c})
	}
}

// GetCounters reads the message count and keyboard flag left behind by
// MessageMetricsMiddleware.
func GetCounters(c tele.Context) (int, bool) {
	msgs := 0
	if v, ok := c.Get(ctxKeyMessages).(int); ok {
		msgs = v
	}
	kb := false
	if v, ok := c.Get(ctxKeyKeyboard).(bool); ok {
		kb = v
	}
	return msgs, kb
}
