// Package listener is a small event dispatch mechanism.
//
// A Manager holds one subject, typically the object that owns it, and a list
// of handlers per event key. Notify passes the subject to every handler
// registered for the event, in registration order:
//
//	type Document struct {
//		events *listener.Manager[string, *Document]
//	}
//
//	func NewDocument() *Document {
//		d := &Document{}
//		d.events, _ = listener.New[string](d)
//		return d
//	}
//
//	func (d *Document) Save() error {
//		if err := d.events.Notify("beforeSave"); err != nil {
//			return err
//		}
//		...
//		return d.events.Notify("saveSuccess")
//	}
//
// Handlers are compared by pointer, so keep the *Handler returned by
// NewHandler to remove it later.
//
// A failing handler does not stop the others. Every failure is logged; the
// first one is returned from Notify after all handlers have run.
package listener
